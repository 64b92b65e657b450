package console

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/auth"
	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/metrics"
)

// Gate controla o modo admin da página: mascaramento dos campos e habilitação do formulário.
// A comparação é local e não autoritativa; quem conhece o valor configurado abre o gate.
// Só volta a fechar quando a página é recarregada (nova Page).
type Gate struct {
	secret    auth.AdminSecret
	noticeTTL time.Duration
	now       func() time.Time
	log       *zap.Logger

	isAdmin   bool
	prompting bool
	message   string
	notice    Notice
}

// NewGate cria o gate fechado a partir da configuração.
func NewGate(cfg *config.Config, now func() time.Time, log *zap.Logger) *Gate {
	return &Gate{
		secret:    auth.AdminSecret{Plain: cfg.AdminPassword, Hash: cfg.AdminPasswordHash},
		noticeTTL: cfg.NoticeTTL,
		now:       now,
		log:       log,
	}
}

// RequestAccess abre o prompt de senha.
func (g *Gate) RequestAccess() {
	g.prompting = true
	g.message = ""
}

// CloseAccess fecha o prompt sem alterar o estado.
func (g *Gate) CloseAccess() {
	g.prompting = false
	g.message = ""
}

// SubmitPassword compara o candidato com o segredo configurado.
func (g *Gate) SubmitPassword(candidate string) error {
	ok, err := g.secret.Check(candidate)
	switch {
	case errors.Is(err, auth.ErrAdminNotConfigured):
		g.message = MsgNotConfigured
		metrics.AdminAttemptsTotal.WithLabelValues("not_configured").Inc()
		return fmt.Errorf("%w: %s", ErrConfiguration, MsgNotConfigured)
	case err != nil:
		g.message = MsgUnexpected
		g.log.Error("falha ao comparar senha de admin", zap.Error(err))
		metrics.AdminAttemptsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	case !ok:
		g.message = MsgWrongPassword
		g.prompting = true
		metrics.AdminAttemptsTotal.WithLabelValues("denied").Inc()
		return ErrAuth
	}

	g.isAdmin = true
	g.prompting = false
	g.message = ""
	g.notice = newNotice(NoticeAdminGranted, g.now(), g.noticeTTL)
	metrics.AdminAttemptsTotal.WithLabelValues("granted").Inc()
	g.log.Info("modo admin liberado na página")
	return nil
}

func (g *Gate) IsAdmin() bool { return g.isAdmin }

func (g *Gate) Prompting() bool { return g.prompting }

// Message é o erro exibido no prompt.
func (g *Gate) Message() string { return g.message }

func (g *Gate) Notice() Notice { return g.notice }

// Secret expõe a origem do segredo para o painel de segredos.
func (g *Gate) Secret() auth.AdminSecret { return g.secret }
