package rowstore

import (
	"context"
	"net/http"

	"wishlink/internal/infra"

	"github.com/golang-jwt/jwt/v5"
)

// Session is a provider-issued identity. Anonymous sessions let guests
// reserve items without an account; the token is handed back to the caller
// so follow-up requests keep the same guest identity.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Guest  bool   `json:"guest"`
}

// EnsureSession mints a new anonymous session with the provider. Any
// non-auth provider error propagates unchanged.
func (c *Client) EnsureSession(ctx context.Context) (Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/auth/anonymous", nil, struct{}{}, &session); err != nil {
		return Session{}, err
	}
	if session.UserID == "" {
		return Session{}, infra.WrapRepoErr(infra.KindProviderFailure, "anonymous session missing user id", nil)
	}
	session.Guest = true
	return session, nil
}

type sessionClaims struct {
	Guest bool `json:"guest"`
	jwt.RegisteredClaims
}

// SubjectFromToken extracts the session subject from a provider-issued JWT.
// The provider verifies signatures on every data-plane write; here the
// subject is only used to attribute requests, so the token is decoded
// without local signature verification.
func SubjectFromToken(token string) (Session, error) {
	var claims sessionClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Session{}, infra.WrapRepoErr(infra.KindUnauthorized, "malformed session token", err)
	}
	if claims.Subject == "" {
		return Session{}, infra.WrapRepoErr(infra.KindUnauthorized, "session token missing subject", nil)
	}
	return Session{Token: token, UserID: claims.Subject, Guest: claims.Guest}, nil
}
