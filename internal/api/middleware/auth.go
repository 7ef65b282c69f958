package middleware

import (
	"citygate/internal/api/handlers"
	"citygate/internal/auth"
	"citygate/internal/models"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// AuthRequired resolves the bearer token and stores the account in the context
func (m *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := handlers.BearerToken(c)
		if !ok {
			handlers.RespondError(c, auth.ErrUnauthorized)
			return
		}

		account, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}

		c.Set(handlers.ContextAccountKey, account)
		c.Next()
	}
}

// RoleRequired must run after AuthRequired. It re-reads the account so a role
// change takes effect without a new token.
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := handlers.CurrentAccount(c)
		if !ok {
			handlers.RespondError(c, auth.ErrUnauthorized)
			return
		}

		if _, err := m.authService.CheckRole(c.Request.Context(), account.ID, roles...); err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.Next()
	}
}
