package console

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/models"
	"github.com/example/myusers-admin/internal/store"
)

// Mode é o modo do formulário.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Form liga o rascunho às operações de criação/edição/remoção e reconcilia
// as respostas do store na UserList. Falhas viram estado visível (Error/Detail),
// nunca são repassadas adiante nem re-tentadas.
type Form struct {
	store     store.Store
	list      *UserList
	noticeTTL time.Duration
	now       func() time.Time
	log       *zap.Logger

	mode     Mode
	targetID int64
	draft    models.Draft
	errMsg   string
	detail   string
	notice   Notice

	pendingDelete int64
	deletePending bool
}

// NewForm cria o formulário em modo de criação com o rascunho vazio.
func NewForm(s store.Store, list *UserList, cfg *config.Config, now func() time.Time, log *zap.Logger) *Form {
	return &Form{
		store:     s,
		list:      list,
		noticeTTL: cfg.NoticeTTL,
		now:       now,
		log:       log,
		draft:     models.DefaultDraft(),
	}
}

// LoadAll recarrega a lista inteira, mais novos primeiro.
// Em falha a lista anterior continua disponível.
func (f *Form) LoadAll(ctx context.Context) (err error) {
	defer f.recoverInto(&err)
	f.list.setLoading(true)
	defer f.list.setLoading(false)

	users, err := f.store.List(ctx, store.NewestFirst())
	if err != nil {
		f.fail(MsgFetchFailed, store.OpList, err)
		return err
	}
	f.list.Replace(users)
	f.clearError()
	return nil
}

// BeginEdit copia o registro para o rascunho e entra em modo de edição.
func (f *Form) BeginEdit(record models.User) {
	f.draft = record.Draft()
	f.mode = ModeEdit
	f.targetID = record.ID
}

// CancelEdit volta ao modo de criação com o rascunho vazio.
func (f *Form) CancelEdit() {
	f.mode = ModeCreate
	f.targetID = 0
	f.draft = models.DefaultDraft()
}

// SubmitCreate insere o rascunho. Sem username ou password nada é enviado ao store.
func (f *Form) SubmitCreate(ctx context.Context, d models.Draft) (err error) {
	defer f.recoverInto(&err)
	if err := f.validate(d); err != nil {
		return err
	}

	created, err := f.store.Insert(ctx, d)
	if err != nil {
		f.draft = d
		f.fail(MsgCreateFailed, store.OpInsert, err)
		return err
	}

	f.list.Prepend(created)
	f.draft = models.DefaultDraft()
	f.notice = newNotice(NoticeCreated, f.now(), f.noticeTTL)
	f.clearError()
	return nil
}

// SubmitUpdate grava o rascunho no registro id. Em falha continua editando o mesmo id.
func (f *Form) SubmitUpdate(ctx context.Context, id int64, d models.Draft) (err error) {
	defer f.recoverInto(&err)
	if err := f.validate(d); err != nil {
		return err
	}

	if err := f.store.Update(ctx, id, d); err != nil {
		f.draft = d
		f.fail(MsgUpdateFailed, store.OpUpdate, err)
		return err
	}

	f.list.Patch(id, d)
	f.CancelEdit()
	f.notice = newNotice(NoticeUpdated, f.now(), f.noticeTTL)
	f.clearError()
	return nil
}

// RequestDelete marca o registro para remoção; nada é enviado até ConfirmDelete.
func (f *Form) RequestDelete(id int64) {
	f.pendingDelete = id
	f.deletePending = true
}

// CancelDelete descarta a remoção pendente.
func (f *Form) CancelDelete() {
	f.pendingDelete = 0
	f.deletePending = false
}

// ConfirmDelete remove o registro marcado por RequestDelete.
func (f *Form) ConfirmDelete(ctx context.Context) error {
	if !f.deletePending {
		f.errMsg, f.detail = MsgNothingToDelete, ""
		return fmt.Errorf("%w: %s", ErrValidation, MsgNothingToDelete)
	}
	id := f.pendingDelete
	f.CancelDelete()
	return f.DeleteRecord(ctx, id, true)
}

// DeleteRecord remove o registro id. Exige confirmação explícita do operador.
func (f *Form) DeleteRecord(ctx context.Context, id int64, confirmed bool) (err error) {
	defer f.recoverInto(&err)
	if !confirmed {
		return fmt.Errorf("%w: delete of user %d not confirmed", ErrValidation, id)
	}

	if err := f.store.Delete(ctx, id); err != nil {
		f.fail(MsgDeleteFailed, store.OpDelete, err)
		return err
	}

	f.list.Remove(id)
	if f.mode == ModeEdit && f.targetID == id {
		f.CancelEdit()
	}
	f.notice = newNotice(NoticeDeleted, f.now(), f.noticeTTL)
	f.clearError()
	return nil
}

// Reject registra um erro de entrada detectado antes do Form (ex.: access inválido).
func (f *Form) Reject(d models.Draft, msg string) error {
	f.draft = d
	f.errMsg, f.detail = msg, ""
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func (f *Form) Mode() Mode { return f.mode }

func (f *Form) TargetID() int64 { return f.targetID }

func (f *Form) Draft() models.Draft { return f.draft }

// Error é a mensagem de erro exibida ao operador ("" sem erro).
func (f *Form) Error() string { return f.errMsg }

// Detail é a mensagem do store que causou o último erro.
func (f *Form) Detail() string { return f.detail }

func (f *Form) Notice() Notice { return f.notice }

// PendingDelete devolve o id aguardando confirmação.
func (f *Form) PendingDelete() (int64, bool) { return f.pendingDelete, f.deletePending }

func (f *Form) validate(d models.Draft) error {
	if d.Username == "" || d.Password == "" {
		return f.Reject(d, MsgRequired)
	}
	return nil
}

func (f *Form) fail(msg, op string, err error) {
	f.errMsg = msg
	f.detail = store.Message(err)
	f.log.Error(msg, zap.String("op", op), zap.Error(err))
}

func (f *Form) clearError() {
	f.errMsg, f.detail = "", ""
}

// recoverInto transforma um panic da operação em ErrUnexpected.
func (f *Form) recoverInto(err *error) {
	if r := recover(); r != nil {
		f.errMsg, f.detail = MsgUnexpected, ""
		f.log.Error("falha inesperada no formulário", zap.Any("panic", r))
		*err = fmt.Errorf("%w: %v", ErrUnexpected, r)
	}
}
