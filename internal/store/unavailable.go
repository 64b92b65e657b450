package store

import (
	"context"
	"errors"

	"github.com/example/myusers-admin/internal/models"
)

// ErrUnavailable indica que o backend do store não pôde ser aberto na subida.
var ErrUnavailable = errors.New("store backend is unavailable")

type unavailable struct {
	cause error
}

// Unavailable devolve um Store em que toda operação falha com ErrUnavailable.
// Usado quando a conexão com o banco falha na subida: a aplicação continua no ar
// e o operador vê o erro em cada chamada.
func Unavailable(cause error) Store {
	return &unavailable{cause: cause}
}

func (s *unavailable) List(context.Context, ListQuery) ([]models.User, error) {
	return nil, s.fail(OpList)
}

func (s *unavailable) Insert(context.Context, models.Draft) (models.User, error) {
	return models.User{}, s.fail(OpInsert)
}

func (s *unavailable) Update(context.Context, int64, models.Draft) error {
	return s.fail(OpUpdate)
}

func (s *unavailable) Delete(context.Context, int64) error {
	return s.fail(OpDelete)
}

func (s *unavailable) fail(op string) error {
	return &Error{Op: op, Message: ErrUnavailable.Error(), Err: errors.Join(ErrUnavailable, s.cause)}
}
