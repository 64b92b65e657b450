package console

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/metrics"
	"github.com/example/myusers-admin/internal/store"
)

// Registry guarda as páginas vivas. Cada GET / cria uma página nova,
// então recarregar a página fecha o gate de admin.
type Registry struct {
	store store.Store
	cfg   *config.Config
	log   *zap.Logger
	now   func() time.Time
	idle  time.Duration

	mu    sync.Mutex
	pages map[string]*Page
}

// NewRegistry cria o registry vazio. PageIdle não positivo usa config.DefaultPageIdle.
func NewRegistry(s store.Store, cfg *config.Config, log *zap.Logger) *Registry {
	idle := cfg.PageIdle
	if idle <= 0 {
		idle = config.DefaultPageIdle
	}
	return &Registry{
		store: s,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		idle:  idle,
		pages: map[string]*Page{},
	}
}

// WithClock troca o relógio (testes).
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// New cria uma página, registra e carrega a lista. Erros do carregamento
// ficam no estado da página.
func (r *Registry) New(ctx context.Context) *Page {
	p := NewPage(uuid.NewString(), r.store, r.cfg, r.now, r.log)

	r.mu.Lock()
	r.sweepLocked()
	r.pages[p.ID] = p
	metrics.PagesActive.Set(float64(len(r.pages)))
	r.mu.Unlock()

	_ = p.Load(ctx)
	return p
}

// Get devolve a página e renova seu prazo de inatividade.
func (r *Registry) Get(id string) (*Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok {
		return nil, false
	}
	if r.expiredLocked(p) {
		delete(r.pages, id)
		metrics.PagesActive.Set(float64(len(r.pages)))
		return nil, false
	}
	p.lastSeen = r.now()
	return p, true
}

// Len é o número de páginas registradas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

func (r *Registry) sweepLocked() {
	for id, p := range r.pages {
		if r.expiredLocked(p) {
			delete(r.pages, id)
		}
	}
}

func (r *Registry) expiredLocked(p *Page) bool {
	return r.now().Sub(p.lastSeen) > r.idle
}
