package console

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/models"
	"github.com/example/myusers-admin/internal/store"
)

// fakeStore registra as chamadas e devolve respostas programadas.
type fakeStore struct {
	mu sync.Mutex

	listResult []models.User
	created    models.User

	listErr   error
	insertErr error
	updateErr error
	deleteErr error
	panicOn   string
	onList    func()

	calls   []string
	lastQ   store.ListQuery
	lastID  int64
	lastDft models.Draft
}

func (s *fakeStore) record(op string) {
	s.calls = append(s.calls, op)
	if s.panicOn == op {
		panic("boom in " + op)
	}
}

func (s *fakeStore) List(_ context.Context, q store.ListQuery) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(store.OpList)
	s.lastQ = q
	if s.onList != nil {
		s.onList()
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]models.User(nil), s.listResult...), nil
}

func (s *fakeStore) Insert(_ context.Context, d models.Draft) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(store.OpInsert)
	s.lastDft = d
	if s.insertErr != nil {
		return models.User{}, s.insertErr
	}
	return s.created, nil
}

func (s *fakeStore) Update(_ context.Context, id int64, d models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(store.OpUpdate)
	s.lastID, s.lastDft = id, d
	return s.updateErr
}

func (s *fakeStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(store.OpDelete)
	s.lastID = id
	return s.deleteErr
}

func (s *fakeStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// clock é um relógio manual.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time           { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func testConfig() *config.Config {
	return &config.Config{
		AdminPassword: "Open-Sesame",
		NoticeTTL:     3 * time.Second,
		PageIdle:      30 * time.Minute,
		StoreDriver:   config.DriverREST,
		StoreTable:    "myusers",
	}
}

func user(id int64, username string, created time.Time) models.User {
	return models.User{
		ID:        id,
		Username:  models.StringPtr(username),
		Password:  models.StringPtr("pw-" + username),
		Active:    true,
		Access:    models.Access{},
		CreatedAt: created,
	}
}

func newTestForm(s *fakeStore, c *clock) (*Form, *UserList) {
	list := NewUserList()
	return NewForm(s, list, testConfig(), c.Now, zap.NewNop()), list
}

var storeDown = &store.Error{Op: store.OpUpdate, Message: "network down"}
