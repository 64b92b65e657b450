package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/example/myusers-admin/internal/console"
	"github.com/example/myusers-admin/internal/models"
	"github.com/example/myusers-admin/internal/store"
)

// =================================================================================
// PAGE HANDLERS
// =================================================================================

// indexHandler cria uma página nova (gate fechado, lista recarregada).
func indexHandler(pages *console.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := pages.New(c.Request.Context())
		c.Redirect(http.StatusSeeOther, "/p/"+p.ID)
	}
}

func showPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "page.tmpl", currentPage(c).View())
	}
}

func reloadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		respond(c, p, p.Load(c.Request.Context()))
	}
}

// =================================================================================
// ADMIN GATE HANDLERS
// =================================================================================

func requestAccessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		p.RequestAccess()
		respond(c, p, nil)
	}
}

func closeAccessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		p.CloseAccess()
		respond(c, p, nil)
	}
}

func submitPasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		respond(c, p, p.SubmitPassword(c.PostForm("password")))
	}
}

func secretsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		secrets, err := p.Secrets()
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin mode required"})
			return
		}
		c.HTML(http.StatusOK, "secrets.tmpl", gin.H{"PageID": p.ID, "Secrets": secrets})
	}
}

// =================================================================================
// USER CRUD HANDLERS
// =================================================================================

type draftForm struct {
	Username   string `form:"username"`
	Password   string `form:"password"`
	ProjectURL string `form:"project_url"`
	ProjectKey string `form:"project_key"`
	FullName   string `form:"full_name"`
	Active     string `form:"active"`
	Access     string `form:"access"`
}

// bindDraft lê o formulário. O campo access precisa ser um objeto JSON (vazio = {})
// e active aceita os valores de checkbox ("on", "true", "1"). Em falha devolve a
// mensagem para o operador junto com o que foi possível ler.
func bindDraft(c *gin.Context) (models.Draft, string) {
	var f draftForm
	if err := c.ShouldBind(&f); err != nil {
		return models.Draft{Access: models.Access{}}, console.MsgInvalidForm
	}

	d := models.Draft{
		Username:   f.Username,
		Password:   f.Password,
		ProjectURL: f.ProjectURL,
		ProjectKey: f.ProjectKey,
		FullName:   f.FullName,
		Access:     models.Access{},
	}

	active, ok := parseCheckbox(f.Active)
	if !ok {
		return d, console.MsgInvalidActive
	}
	d.Active = active

	if f.Access == "" {
		return d, ""
	}
	if err := json.Unmarshal([]byte(f.Access), &d.Access); err != nil || d.Access == nil {
		d.Access = models.Access{}
		return d, console.MsgInvalidAccess
	}
	return d, ""
}

func parseCheckbox(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "off", "false", "0":
		return false, true
	case "on", "true", "1":
		return true, true
	}
	return false, false
}

func createUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		d, msg := bindDraft(c)
		if msg != "" {
			respond(c, p, p.Reject(d, msg))
			return
		}
		respond(c, p, p.Create(c.Request.Context(), d))
	}
}

func updateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		p := currentPage(c)
		d, msg := bindDraft(c)
		if msg != "" {
			respond(c, p, p.Reject(d, msg))
			return
		}
		respond(c, p, p.Update(c.Request.Context(), id, d))
	}
}

func beginEditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		p := currentPage(c)
		respond(c, p, p.BeginEdit(id))
	}
}

func cancelEditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		p.CancelEdit()
		respond(c, p, nil)
	}
}

func requestDeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		p := currentPage(c)
		respond(c, p, p.RequestDelete(id))
	}
}

func confirmDeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		respond(c, p, p.ConfirmDelete(c.Request.Context()))
	}
}

func cancelDeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := currentPage(c)
		p.CancelDelete()
		respond(c, p, nil)
	}
}

// =================================================================================
// STORE PROBE
// =================================================================================

// storeCheckHandler busca um único registro para validar endpoint e chave do store.
func storeCheckHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.List(c.Request.Context(), store.ListQuery{OrderBy: "created_at", Limit: 1})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": store.Message(err), "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": users})
	}
}

// =================================================================================
// HELPERS
// =================================================================================

// respond segue post/redirect/get: o estado da página já guarda erros e avisos.
// Erros de entrada e de senha re-renderizam direto com o status correspondente.
func respond(c *gin.Context, p *console.Page, err error) {
	status := http.StatusSeeOther
	switch {
	case errors.Is(err, console.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, console.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, console.ErrConfiguration):
		status = http.StatusServiceUnavailable
	case errors.Is(err, console.ErrAdminRequired):
		status = http.StatusForbidden
	}
	if status == http.StatusSeeOther {
		c.Redirect(status, "/p/"+p.ID)
		return
	}
	c.HTML(status, "page.tmpl", p.View())
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
