package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"wishlink/internal/infra/rowstore"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserIDKey = "session_user_id"
	ctxGuestKey  = "session_guest"

	// SessionTokenHeader carries the provider session token both ways: the
	// client sends it back on follow-up requests, and a freshly minted guest
	// session is echoed here so the client can keep its identity.
	SessionTokenHeader = "X-Session-Token"
)

type SessionMinter interface {
	EnsureSession(ctx context.Context) (rowstore.Session, error)
}

type SessionMiddleware struct {
	minter SessionMinter
}

func NewSessionMiddleware(minter SessionMinter) *SessionMiddleware {
	return &SessionMiddleware{minter: minter}
}

// EnsureSession attributes the request to a provider session. A token from
// the Authorization header or X-Session-Token is decoded as is; without one
// an anonymous session is minted and handed back via X-Session-Token.
// Guests pass through: participation rules are enforced in the use cases,
// not here.
func (m *SessionMiddleware) EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)

		var session rowstore.Session
		var err error
		if token != "" {
			session, err = rowstore.SubjectFromToken(token)
			if err != nil {
				slog.Warn("rejected malformed session token", "error", err.Error())
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid session token",
				})
				c.Abort()
				return
			}
		} else {
			session, err = m.minter.EnsureSession(c.Request.Context())
			if err != nil {
				slog.Error("failed to mint anonymous session", "error", err.Error())
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error": "Session service unavailable",
				})
				c.Abort()
				return
			}
			c.Header(SessionTokenHeader, session.Token)
		}

		c.Set(ctxUserIDKey, session.UserID)
		c.Set(ctxGuestKey, session.Guest)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return c.GetHeader(SessionTokenHeader)
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok && id != ""
}

func IsGuest(c *gin.Context) bool {
	guest, exists := c.Get(ctxGuestKey)
	if !exists {
		return true
	}

	g, ok := guest.(bool)
	return !ok || g
}
