package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/martijn/scribe/internal/api/dto"
	"github.com/martijn/scribe/internal/core/domain"
	"github.com/martijn/scribe/internal/core/service"
)

const (
	SessionCookieName = "scribe_session"
	FlashCookieName   = "flash"
	AuthContextKey    = "auth"
	LoginPath         = "/login"
)

// AuthMiddleware gates a route on a valid session. The token is read from
// the session cookie, falling back to a Bearer header. Unauthenticated
// callers get a one-shot flash notice and a redirect to the login page;
// the wrapped handler is never invoked.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			redirectToLogin(c)
			return
		}

		session, err := authService.Resolve(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "failed to resolve session",
				Code:    http.StatusInternalServerError,
			})
			c.Abort()
			return
		}
		if session == nil {
			redirectToLogin(c)
			return
		}

		c.Set(AuthContextKey, session)

		c.Next()
	}
}

// SessionToken extracts the session token from the request, preferring the
// cookie over the Authorization header. Returns "" when neither is present.
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

// GetSession retrieves the resolved session from context
func GetSession(c *gin.Context) (*domain.Session, bool) {
	value, exists := c.Get(AuthContextKey)
	if !exists {
		return nil, false
	}

	session, ok := value.(*domain.Session)
	return session, ok
}

func redirectToLogin(c *gin.Context) {
	// One-shot notice for the presentation layer to display
	c.SetCookie(FlashCookieName, "Please log in first.", 60, "/", "", false, false)
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}
