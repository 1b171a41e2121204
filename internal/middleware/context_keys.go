package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
)

const principalCtxKey = contextKey("principal")

// GetPrincipalFromContext retrieves the authenticated principal set by the auth
// middleware. The boolean is false when the request is unauthenticated.
func GetPrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val := c.Request.Context().Value(principalCtxKey)
	if val == nil {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}
