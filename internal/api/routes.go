package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/auth"
	"github.com/example/myusers-admin/internal/console"
	"github.com/example/myusers-admin/internal/store"
)

// NewRouter cria o engine gin com middlewares e todas as rotas.
func NewRouter(pages *console.Registry, s store.Store, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), requestMetrics())
	r.SetHTMLTemplate(loadTemplates())
	RegisterRoutes(r, pages, s)
	return r
}

// RegisterRoutes registra a página do console, o probe do store e os endpoints operacionais.
func RegisterRoutes(r *gin.Engine, pages *console.Registry, s store.Store) {
	r.GET("/", indexHandler(pages))

	page := r.Group("/p/:page", pageLoader(pages))
	{
		page.GET("", showPageHandler())
		page.POST("/reload", reloadHandler())

		// Gate de admin
		page.POST("/admin/prompt", requestAccessHandler())
		page.POST("/admin/cancel", closeAccessHandler())
		page.POST("/admin", submitPasswordHandler())

		page.POST("/edit/cancel", cancelEditHandler())
		page.POST("/delete/cancel", cancelDeleteHandler())
	}

	// Ações de escrita: só com o gate aberto
	admin := page.Group("", auth.RequireAdmin())
	{
		admin.GET("/secrets", secretsHandler())
		admin.POST("/users", createUserHandler())
		admin.POST("/users/:id", updateUserHandler())
		admin.POST("/users/:id/edit", beginEditHandler())
		admin.POST("/users/:id/delete", requestDeleteHandler())
		admin.POST("/delete/confirm", confirmDeleteHandler())
	}

	api := r.Group("/api/v1")
	{
		api.GET("/store/check", storeCheckHandler(s))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Healthcheck simples
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
