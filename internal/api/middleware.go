package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/myusers-admin/internal/auth"
	"github.com/example/myusers-admin/internal/console"
	"github.com/example/myusers-admin/internal/metrics"
)

const contextPageKey = "page"

// requestLogger registra cada requisição no zap.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("client", c.ClientIP()),
		)
	}
}

// requestMetrics alimenta os contadores HTTP usando a rota registrada como label.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// pageLoader resolve :page no registry. Página desconhecida ou expirada volta para /,
// que cria uma página nova.
func pageLoader(pages *console.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := pages.Get(c.Param("page"))
		if !ok {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Set(contextPageKey, p)
		c.Set(auth.ContextAdminKey, p.IsAdmin())
		c.Next()
	}
}

func currentPage(c *gin.Context) *console.Page {
	return c.MustGet(contextPageKey).(*console.Page)
}
