package auth

import (
	"context"
	"net/http"
	"strings"

	dom "github.com/sushilkumar666/task-manager/internal/domain"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie carrying the access token.
const CookieName = "accessToken"

const contextKeyUser = "current_user"

// UserLoader resolves a user id to its account. Satisfied by repo.PGUserRepo.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (dom.User, error)
}

// CurrentUser returns the identity attached by RequireAuth. False if the
// request never passed the middleware, which is a caller error.
func CurrentUser(c *gin.Context) (dom.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}, false
	}
	u, ok := v.(dom.User)
	return u, ok
}

// RequireAuth returns a middleware that locates an access token in the
// accessToken cookie or the Authorization: Bearer header (cookie first),
// validates it, resolves the bound user and attaches it to the context.
// It is a pure gate: it never writes to any store.
func RequireAuth(tokens *TokenManager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized request: No token provided",
			})
			return
		}

		userID, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not found or invalid token",
			})
			return
		}
		u.PasswordHash = ""

		c.Set(contextKeyUser, u)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
