package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/models"
	appErrors "github.com/campushq/school-api/pkg/errors"
	"github.com/campushq/school-api/pkg/response"
)

// ContextIdentityKey is the gin context key holding the resolved identity.
const ContextIdentityKey = "auth.identity"

// Authenticator resolves bearer tokens into identities.
type Authenticator interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
	Authenticate(ctx context.Context, token string, role models.UserRole) (*models.Identity, error)
}

// RequireRole authenticates the request and requires the caller to belong to
// the given role partition. A missing or bad token is 401; a valid token on
// the wrong partition is 403.
func RequireRole(auth Authenticator, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthenticated, "missing bearer token"))
			c.Abort()
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token, role)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// GuestOnly guards login routes: a request already carrying a live session
// token is refused until that session is logged out. Requests without a
// token, or with a dead one, pass through.
func GuestOnly(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		if _, err := auth.Resolve(c.Request.Context(), token); err == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrSessionActive, "already logged in, logout first"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// IdentityFromContext returns the identity attached by RequireRole.
func IdentityFromContext(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
