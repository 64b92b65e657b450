package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/models"
	"github.com/example/myusers-admin/internal/store"
)

// Page é o estado de uma carga de página: gate de admin, formulário e lista.
// Requisições da mesma página são serializadas pelo mutex.
type Page struct {
	ID string

	mu   sync.Mutex
	cfg  *config.Config
	gate *Gate
	form *Form
	list *UserList
	now  func() time.Time

	// protegido pelo mutex do Registry
	lastSeen time.Time
}

// NewPage monta uma página nova: gate fechado, modo de criação, lista vazia.
func NewPage(id string, s store.Store, cfg *config.Config, now func() time.Time, log *zap.Logger) *Page {
	log = log.With(zap.String("page", id))
	list := NewUserList()
	return &Page{
		ID:       id,
		cfg:      cfg,
		gate:     NewGate(cfg, now, log),
		form:     NewForm(s, list, cfg, now, log),
		list:     list,
		now:      now,
		lastSeen: now(),
	}
}

// Load recarrega a lista.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.LoadAll(ctx)
}

// RequestAccess abre o prompt de senha de admin.
func (p *Page) RequestAccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gate.RequestAccess()
}

// CloseAccess fecha o prompt de senha.
func (p *Page) CloseAccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gate.CloseAccess()
}

// SubmitPassword tenta abrir o gate de admin.
func (p *Page) SubmitPassword(candidate string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gate.SubmitPassword(candidate)
}

// IsAdmin indica se o gate da página está aberto.
func (p *Page) IsAdmin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gate.IsAdmin()
}

// Create envia o rascunho como novo registro.
func (p *Page) Create(ctx context.Context, d models.Draft) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireAdmin(); err != nil {
		return err
	}
	return p.form.SubmitCreate(ctx, d)
}

// BeginEdit passa o formulário para edição do registro id.
func (p *Page) BeginEdit(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireAdmin(); err != nil {
		return err
	}
	record, ok := p.list.Get(id)
	if !ok {
		return p.form.Reject(p.form.Draft(), fmt.Sprintf("User %d is not in the list", id))
	}
	p.form.BeginEdit(record)
	return nil
}

// CancelEdit volta ao modo de criação.
func (p *Page) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.CancelEdit()
}

// Update grava o rascunho no registro em edição. id precisa ser o alvo atual.
func (p *Page) Update(ctx context.Context, id int64, d models.Draft) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireAdmin(); err != nil {
		return err
	}
	if p.form.Mode() != ModeEdit || p.form.TargetID() != id {
		return p.form.Reject(p.form.Draft(), MsgNotEditing)
	}
	return p.form.SubmitUpdate(ctx, id, d)
}

// RequestDelete pede confirmação para remover o registro id.
func (p *Page) RequestDelete(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireAdmin(); err != nil {
		return err
	}
	if _, ok := p.list.Get(id); !ok {
		return p.form.Reject(p.form.Draft(), fmt.Sprintf("User %d is not in the list", id))
	}
	p.form.RequestDelete(id)
	return nil
}

// CancelDelete descarta a remoção pendente.
func (p *Page) CancelDelete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.CancelDelete()
}

// ConfirmDelete executa a remoção pendente.
func (p *Page) ConfirmDelete(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireAdmin(); err != nil {
		return err
	}
	return p.form.ConfirmDelete(ctx)
}

// Reject registra um erro de entrada (ex.: JSON de access inválido) mantendo o rascunho.
func (p *Page) Reject(d models.Draft, msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.Reject(d, msg)
}

func (p *Page) requireAdmin() error {
	if p.gate.IsAdmin() {
		return nil
	}
	p.form.errMsg, p.form.detail = MsgAdminRequired, ""
	return ErrAdminRequired
}
