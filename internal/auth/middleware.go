package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextAdminKey é a chave do gin.Context onde o carregador de página grava o estado do gate.
const ContextAdminKey = "admin"

// RequireAdmin garante que o gate de admin da página está aberto.
// O gate é local à página e não é uma fronteira de confiança: só espelha os controles desabilitados.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(ContextAdminKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no page context"})
			return
		}
		isAdmin, ok := val.(bool)
		if !ok || !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin mode required"})
			return
		}
		c.Next()
	}
}
