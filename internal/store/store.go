// Package store define o record store (tabela de usuários) e suas implementações:
// PostgREST/Supabase via HTTP e Postgres direto via gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/myusers-admin/internal/models"
)

// Operações, usadas em erros, logs e métricas.
const (
	OpList   = "list"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// GenericMessage é exibida quando o erro não traz mensagem legível.
const GenericMessage = "Unexpected store error"

// Store é o contrato do record store. Cada chamada devolve dados ou erro;
// nenhuma implementação faz retry.
type Store interface {
	List(ctx context.Context, q ListQuery) ([]models.User, error)
	Insert(ctx context.Context, d models.Draft) (models.User, error)
	Update(ctx context.Context, id int64, d models.Draft) error
	Delete(ctx context.Context, id int64) error
}

// ListQuery descreve ordenação e limite da listagem. Limit 0 = sem limite.
type ListQuery struct {
	OrderBy   string
	Ascending bool
	Limit     int
}

// NewestFirst é a ordenação usada pela página: created_at decrescente.
func NewestFirst() ListQuery {
	return ListQuery{OrderBy: "created_at"}
}

// Error é a falha reportada pelo store, com mensagem legível para o operador.
type Error struct {
	Op      string
	Message string
	Code    string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store %s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNotConfigured indica que o endpoint do store não foi configurado.
var ErrNotConfigured = errors.New("store endpoint is not configured")

// Message extrai a mensagem legível de um erro do store,
// ou GenericMessage para formatos inesperados.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return GenericMessage
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Message: err.Error(), Err: err}
}
