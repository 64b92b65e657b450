package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/console"
	"github.com/example/myusers-admin/internal/models"
	"github.com/example/myusers-admin/internal/store"
)

type memStore struct {
	mu      sync.Mutex
	users   []models.User
	nextID  int64
	listErr error
	calls   []string
}

func (s *memStore) List(_ context.Context, q store.ListQuery) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, store.OpList)
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := append([]models.User(nil), s.users...)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *memStore) Insert(_ context.Context, d models.Draft) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, store.OpInsert)
	s.nextID++
	u := models.User{ID: s.nextID, CreatedAt: time.Now().UTC()}.Apply(d)
	s.users = append([]models.User{u}, s.users...)
	return u, nil
}

func (s *memStore) Update(_ context.Context, id int64, d models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, store.OpUpdate)
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i] = s.users[i].Apply(d)
		}
	}
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, store.OpDelete)
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type harness struct {
	t      *testing.T
	router *gin.Engine
	store  *memStore
}

func newHarness(t *testing.T, users ...models.User) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := &memStore{users: users, nextID: 100}
	cfg := &config.Config{
		AdminPassword: "Open-Sesame",
		NoticeTTL:     3 * time.Second,
		PageIdle:      time.Hour,
		StoreDriver:   config.DriverREST,
		StoreTable:    "myusers",
		SupabaseURL:   "https://proj.supabase.co",
		SupabaseKey:   "anon-key-value",
	}
	pages := console.NewRegistry(s, cfg, zap.NewNop())
	return &harness{t: t, router: NewRouter(pages, s, zap.NewNop()), store: s}
}

func (h *harness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// open cria uma página e devolve seu caminho.
func (h *harness) open() string {
	w := h.do(http.MethodGet, "/", nil)
	require.Equal(h.t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.True(h.t, strings.HasPrefix(loc, "/p/"))
	return loc
}

func (h *harness) unlock(page string) {
	w := h.do(http.MethodPost, page+"/admin", url.Values{"password": {"Open-Sesame"}})
	require.Equal(h.t, http.StatusSeeOther, w.Code)
}

func (h *harness) body(page string) string {
	w := h.do(http.MethodGet, page, nil)
	require.Equal(h.t, http.StatusOK, w.Code)
	return w.Body.String()
}

func bob() models.User {
	return models.User{
		ID:        1,
		Username:  models.StringPtr("bob"),
		Password:  models.StringPtr("hunter2"),
		FullName:  models.StringPtr("Bob Smith"),
		Active:    true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEmptyListRendersPlaceholder(t *testing.T) {
	h := newHarness(t)
	page := h.open()

	body := h.body(page)
	assert.Contains(t, body, "No users found")
	assert.NotContains(t, body, "Loading...")
}

func TestFieldsMaskedUntilAdmin(t *testing.T) {
	h := newHarness(t, bob())
	page := h.open()

	body := h.body(page)
	assert.NotContains(t, body, "bob")
	assert.NotContains(t, body, "Bob Smith")
	assert.Contains(t, body, "<td>***</td>")
	assert.Contains(t, body, "<td>*********</td>")
	assert.Contains(t, body, "disabled")
	assert.Contains(t, body, "2024-01-01")

	h.unlock(page)
	body = h.body(page)
	assert.Contains(t, body, "<td>bob</td>")
	assert.Contains(t, body, "Bob Smith")
	assert.Contains(t, body, "Admin access granted")
}

func TestReloadClosesGate(t *testing.T) {
	h := newHarness(t, bob())
	page := h.open()
	h.unlock(page)

	fresh := h.open()
	assert.NotEqual(t, page, fresh)
	assert.NotContains(t, h.body(fresh), "<td>bob</td>")
}

func TestWrongPassword(t *testing.T) {
	h := newHarness(t)
	page := h.open()
	h.do(http.MethodPost, page+"/admin/prompt", nil)

	w := h.do(http.MethodPost, page+"/admin", url.Values{"password": {"open-sesame"}})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect password")
	assert.Contains(t, w.Body.String(), `name="password" value=""`)
}

func TestWritesRequireAdmin(t *testing.T) {
	h := newHarness(t, bob())
	page := h.open()

	for _, target := range []string{"/users", "/users/1", "/users/1/edit", "/users/1/delete", "/delete/confirm"} {
		w := h.do(http.MethodPost, page+target, url.Values{"username": {"x"}, "password": {"y"}})
		assert.Equal(t, http.StatusForbidden, w.Code, target)
	}
	w := h.do(http.MethodGet, page+"/secrets", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, []string{store.OpList}, h.store.Calls())
}

func TestCreateUser(t *testing.T) {
	h := newHarness(t, bob())
	page := h.open()
	h.unlock(page)

	w := h.do(http.MethodPost, page+"/users", url.Values{
		"username": {"alice"},
		"password": {"s3cret"},
		"active":   {"true"},
		"access":   {`{"projects":["alpha"]}`},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	body := h.body(page)
	assert.Contains(t, body, "User created")
	assert.Less(t, strings.Index(body, "<td>alice</td>"), strings.Index(body, "<td>bob</td>"))
	assert.Equal(t, "alpha", h.store.users[0].Access["projects"].([]any)[0])
}

func TestCreateUserValidation(t *testing.T) {
	h := newHarness(t)
	page := h.open()
	h.unlock(page)

	w := h.do(http.MethodPost, page+"/users", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), console.MsgRequired)

	w = h.do(http.MethodPost, page+"/users", url.Values{"username": {"a"}, "password": {"b"}, "access": {"[1,2]"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), console.MsgInvalidAccess)

	assert.Equal(t, []string{store.OpList}, h.store.Calls())
}

func TestCreateUserCheckboxActive(t *testing.T) {
	h := newHarness(t)
	page := h.open()
	h.unlock(page)

	w := h.do(http.MethodPost, page+"/users", url.Values{
		"username": {"a"},
		"password": {"b"},
		"active":   {"on"},
		"access":   {`{"role":"x"}`},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	require.Len(t, h.store.users, 1)
	assert.True(t, h.store.users[0].Active)
	assert.Equal(t, "x", h.store.users[0].Access["role"])
}

func TestCreateUserMalformedActive(t *testing.T) {
	h := newHarness(t)
	page := h.open()
	h.unlock(page)

	w := h.do(http.MethodPost, page+"/users", url.Values{
		"username": {"a"},
		"password": {"b"},
		"active":   {"maybe"},
		"access":   {`{"role":"x"}`},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), console.MsgInvalidActive)
	assert.Equal(t, []string{store.OpList}, h.store.Calls())
}

func TestEditAndUpdateUser(t *testing.T) {
	h := newHarness(t, bob())
	page := h.open()
	h.unlock(page)

	require.Equal(t, http.StatusSeeOther, h.do(http.MethodPost, page+"/users/1/edit", nil).Code)
	body := h.body(page)
	assert.Contains(t, body, "Edit User")
	assert.Contains(t, body, `value="Bob Smith"`)

	w := h.do(http.MethodPost, page+"/users/1", url.Values{
		"username":  {"robert"},
		"password":  {"hunter3"},
		"full_name": {"Robert Smith"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	body = h.body(page)
	assert.Contains(t, body, "Create New User")
	assert.Contains(t, body, "<td>robert</td>")
	assert.Contains(t, body, "<td>Inactive</td>")
	assert.Equal(t, []string{store.OpList, store.OpUpdate}, h.store.Calls())
}

func TestUpdateRequiresEditMode(t *testing.T) {
	h := newHarness(t, bob())
	page := h.open()
	h.unlock(page)

	w := h.do(http.MethodPost, page+"/users/1", url.Values{"username": {"x"}, "password": {"y"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(http.MethodPost, page+"/users/abc", url.Values{"username": {"x"}, "password": {"y"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUser(t *testing.T) {
	h := newHarness(t, bob())
	page := h.open()
	h.unlock(page)

	require.Equal(t, http.StatusSeeOther, h.do(http.MethodPost, page+"/users/1/delete", nil).Code)
	assert.Contains(t, h.body(page), "Are you sure you want to delete this user?")
	assert.Equal(t, []string{store.OpList}, h.store.Calls())

	require.Equal(t, http.StatusSeeOther, h.do(http.MethodPost, page+"/delete/confirm", nil).Code)
	body := h.body(page)
	assert.Contains(t, body, "No users found")
	assert.Contains(t, body, "User deleted")
}

func TestUnknownPageRedirects(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/p/does-not-exist", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSecretsPanel(t *testing.T) {
	h := newHarness(t)
	page := h.open()
	h.unlock(page)

	w := h.do(http.MethodGet, page+"/secrets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anon-key-value")
	assert.Contains(t, w.Body.String(), "https://proj.supabase.co")
}

func TestStoreCheck(t *testing.T) {
	h := newHarness(t, bob())

	w := h.do(http.MethodGet, "/api/v1/store/check", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool          `json:"success"`
		Data    []models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)

	h.store.listErr = &store.Error{Op: store.OpList, Message: "Invalid API key", Status: 401}
	w = h.do(http.MethodGet, "/api/v1/store/check", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestFetchErrorShown(t *testing.T) {
	h := newHarness(t)
	h.store.listErr = &store.Error{Op: store.OpList, Message: "connection refused"}
	page := h.open()

	body := h.body(page)
	assert.Contains(t, body, console.MsgFetchFailed)
	assert.Contains(t, body, "connection refused")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	h.open()
	w = h.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "myusers_admin_http_requests_total")
}
