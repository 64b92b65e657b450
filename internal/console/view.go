package console

import (
	"encoding/json"
	"fmt"

	"github.com/example/myusers-admin/internal/auth"
	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/models"
)

// Row é uma linha da tabela já pronta para renderizar (mascarada ou não).
type Row struct {
	ID         int64
	Username   string
	Password   string
	ProjectURL string
	ProjectKey string
	FullName   string
	Active     string
	CreatedAt  string
}

// NoticeView é um aviso ativo com o tempo restante em ms para o auto-dismiss.
type NoticeView struct {
	Text        string
	RemainingMS int64
}

// View é o modelo de renderização da página.
type View struct {
	PageID        string
	IsAdmin       bool
	Prompting     bool
	PromptMessage string
	Rows          []Row
	Mode          string
	Editing       bool
	TargetID      int64
	Draft         models.Draft
	AccessJSON    string
	FormDisabled  bool
	Error         string
	Detail        string
	Notices       []NoticeView
	PendingDelete *Row
}

// View monta o modelo de renderização. Com o gate fechado todo texto sai mascarado.
func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	admin := p.gate.IsAdmin()
	draft := p.form.Draft()

	v := View{
		PageID:        p.ID,
		IsAdmin:       admin,
		Prompting:     p.gate.Prompting(),
		PromptMessage: p.gate.Message(),
		Mode:          p.form.Mode().String(),
		Editing:       p.form.Mode() == ModeEdit,
		TargetID:      p.form.TargetID(),
		Draft:         draft,
		AccessJSON:    accessJSON(draft.Access),
		FormDisabled:  !admin,
		Error:         p.form.Error(),
		Detail:        p.form.Detail(),
	}

	items := p.list.Items()
	v.Rows = make([]Row, 0, len(items))
	for _, u := range items {
		v.Rows = append(v.Rows, RenderRow(u, admin))
	}

	for _, n := range []Notice{p.gate.Notice(), p.form.Notice()} {
		if n.Active(now) {
			v.Notices = append(v.Notices, NoticeView{Text: n.Text, RemainingMS: n.Remaining(now).Milliseconds()})
		}
	}

	if id, ok := p.form.PendingDelete(); ok {
		if u, found := p.list.Get(id); found {
			row := RenderRow(u, admin)
			v.PendingDelete = &row
		}
	}
	return v
}

// RenderRow converte um registro em linha. Sem admin cada campo de texto vira
// uma máscara do mesmo tamanho e active vira MaskedActive.
func RenderRow(u models.User, admin bool) Row {
	row := Row{ID: u.ID}
	if !u.CreatedAt.IsZero() {
		row.CreatedAt = u.CreatedAt.Format("2006-01-02")
	}
	if !admin {
		row.Username = maskPtr(u.Username)
		row.Password = maskPtr(u.Password)
		row.ProjectURL = maskPtr(u.ProjectURL)
		row.ProjectKey = maskPtr(u.ProjectKey)
		row.FullName = maskPtr(u.FullName)
		row.Active = MaskedActive
		return row
	}
	d := u.Draft()
	row.Username = d.Username
	row.Password = d.Password
	row.ProjectURL = d.ProjectURL
	row.ProjectKey = d.ProjectKey
	row.FullName = d.FullName
	row.Active = "Inactive"
	if u.Active {
		row.Active = "Active"
	}
	return row
}

func accessJSON(a models.Access) string {
	if len(a) == 0 {
		return "{}"
	}
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Secret é um item do painel de segredos.
type Secret struct {
	Label string
	Value string
}

// Secrets monta o painel de segredos. Só acessível com o gate aberto.
func (p *Page) Secrets() ([]Secret, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.gate.IsAdmin() {
		return nil, ErrAdminRequired
	}
	return secretsFor(p.cfg, p.gate.Secret()), nil
}

func secretsFor(cfg *config.Config, admin auth.AdminSecret) []Secret {
	out := []Secret{{Label: "Store driver", Value: cfg.StoreDriver}}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		out = append(out,
			Secret{"Database", fmt.Sprintf("%s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)},
			Secret{"Database user", cfg.DBUser},
			Secret{"Database password", cfg.DBPassword},
		)
	default:
		out = append(out,
			Secret{"Store endpoint", orUnset(cfg.SupabaseURL)},
			Secret{"API key", orUnset(cfg.SupabaseKey)},
		)
		if cfg.SupabaseKey != "" {
			if info, err := auth.InspectKey(cfg.SupabaseKey); err == nil {
				out = append(out, Secret{"API key role", orUnset(info.Role)}, Secret{"Project ref", orUnset(info.Ref)})
				if !info.ExpiresAt.IsZero() {
					out = append(out, Secret{"API key expires", info.ExpiresAt.UTC().Format("2006-01-02 15:04 MST")})
				}
			} else {
				out = append(out, Secret{"API key role", "not a JWT"})
			}
		}
		if cfg.SignInEnabled() {
			out = append(out,
				Secret{"Sign-in email", cfg.SupabaseEmail},
				Secret{"Sign-in password", cfg.SupabasePassword},
			)
		}
	}

	out = append(out, Secret{"Table", cfg.StoreTable}, Secret{"Admin password source", admin.Source()})
	if admin.Plain != "" {
		out = append(out, Secret{"Admin password", admin.Plain})
	}
	return out
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
