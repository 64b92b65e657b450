package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/example/myusers-admin/internal/auth"
	"github.com/example/myusers-admin/internal/config"
	"github.com/example/myusers-admin/internal/models"
)

// tokenLeeway antecipa a renovação do access token.
const tokenLeeway = 30 * time.Second

// REST fala com a API PostgREST do Supabase (/rest/v1/<tabela>).
type REST struct {
	baseURL  string
	key      string
	table    string
	email    string
	password string
	client   *http.Client
	now      func() time.Time

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewREST cria o client REST. Com client nil usa um http.Client com o timeout configurado.
func NewREST(cfg *config.Config, client *http.Client) *REST {
	if client == nil {
		client = &http.Client{Timeout: cfg.StoreTimeout}
	}
	r := &REST{
		baseURL: cfg.SupabaseURL,
		key:     cfg.SupabaseKey,
		table:   cfg.StoreTable,
		client:  client,
		now:     time.Now,
	}
	if cfg.SignInEnabled() {
		r.email = cfg.SupabaseEmail
		r.password = cfg.SupabasePassword
	}
	return r
}

// List busca os registros na ordem pedida.
func (r *REST) List(ctx context.Context, q ListQuery) ([]models.User, error) {
	params := url.Values{}
	params.Set("select", "*")
	if q.OrderBy != "" {
		dir := "desc"
		if q.Ascending {
			dir = "asc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var users []models.User
	if err := r.do(ctx, OpList, http.MethodGet, params, nil, "", &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Insert cria um registro e devolve a linha criada (id e created_at atribuídos pelo store).
func (r *REST) Insert(ctx context.Context, d models.Draft) (models.User, error) {
	var created []models.User
	err := r.do(ctx, OpInsert, http.MethodPost, nil, []models.Draft{payload(d)}, "return=representation", &created)
	if err != nil {
		return models.User{}, err
	}
	if len(created) == 0 {
		return models.User{}, &Error{Op: OpInsert, Message: "insert returned no rows"}
	}
	return created[0], nil
}

// Update grava o rascunho no registro com o id informado.
func (r *REST) Update(ctx context.Context, id int64, d models.Draft) error {
	return r.do(ctx, OpUpdate, http.MethodPatch, byID(id), payload(d), "return=minimal", nil)
}

// Delete remove o registro com o id informado.
func (r *REST) Delete(ctx context.Context, id int64) error {
	return r.do(ctx, OpDelete, http.MethodDelete, byID(id), nil, "return=minimal", nil)
}

func (r *REST) do(ctx context.Context, op, method string, params url.Values, body any, prefer string, out any) error {
	if r.baseURL == "" {
		return &Error{Op: op, Message: ErrNotConfigured.Error(), Err: ErrNotConfigured}
	}

	endpoint := r.baseURL + "/rest/v1/" + url.PathEscape(r.table)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return wrap(op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return wrap(op, err)
	}
	bearer, err := r.bearer(ctx)
	if err != nil {
		return wrap(op, err)
	}
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return wrap(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrap(op, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(op, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Op: op, Message: "invalid response from store", Status: resp.StatusCode, Err: err}
	}
	return nil
}

// bearer devolve o token do header Authorization: o access token da sessão
// quando há login configurado, senão a própria chave.
func (r *REST) bearer(ctx context.Context) (string, error) {
	if r.email == "" {
		return r.key, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.token != "" && (r.tokenExp.IsZero() || r.now().Add(tokenLeeway).Before(r.tokenExp)) {
		return r.token, nil
	}
	token, exp, err := r.signIn(ctx)
	if err != nil {
		return "", err
	}
	r.token, r.tokenExp = token, exp
	return token, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (r *REST) signIn(ctx context.Context) (string, time.Time, error) {
	const op = "sign-in"

	body, _ := json.Marshal(map[string]string{"email": r.email, "password": r.password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, wrap(op, err)
	}
	req.Header.Set("apikey", r.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", time.Time{}, wrap(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, wrap(op, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", time.Time{}, decodeError(op, resp.StatusCode, raw)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil || tr.AccessToken == "" {
		return "", time.Time{}, &Error{Op: op, Message: "invalid token response", Status: resp.StatusCode, Err: err}
	}

	exp, err := auth.TokenExpiry(tr.AccessToken)
	if err != nil || exp.IsZero() {
		exp = r.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tr.AccessToken, exp, nil
}

// apiError cobre os formatos de erro do PostgREST e do GoTrue.
type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
}

func decodeError(op string, status int, raw []byte) error {
	se := &Error{Op: op, Status: status}
	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil {
		switch {
		case ae.Message != "":
			se.Message = ae.Message
		case ae.ErrorDescription != "":
			se.Message = ae.ErrorDescription
		case ae.Msg != "":
			se.Message = ae.Msg
		}
		if ae.Code != nil {
			se.Code = fmt.Sprint(ae.Code)
		}
	}
	if se.Message == "" {
		se.Message = http.StatusText(status)
	}
	se.Err = errors.New(se.Message)
	return se
}

func byID(id int64) url.Values {
	return url.Values{"id": []string{"eq." + strconv.FormatInt(id, 10)}}
}

func payload(d models.Draft) models.Draft {
	if d.Access == nil {
		d.Access = models.Access{}
	}
	return d
}
