// internal/session/session.go
//
// Player session identity for the HTTP transport.
// Each browser gets a random session ID (UUID) carried in an HS256 JWT
// cookie. The ID keys the player's active round in the store.
// Missing, expired, or tampered tokens simply mint a new session. When an
// expired but genuine token is replaced, the reissue hook learns the stale ID
// so its round can be dropped.

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned by Parse for any token it does not accept.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken marks a correctly signed token past its expiry.
	// It matches ErrInvalidToken under errors.Is.
	ErrExpiredToken = fmt.Errorf("%w: expired", ErrInvalidToken)
)

const tokenLifetime = 30 * 24 * time.Hour

// Manager signs and verifies session tokens and manages the cookie.
type Manager struct {
	secret     []byte
	cookieName string
	secure     bool
	now        func() time.Time
	onReissue  func(ctx context.Context, staleID string)
}

// NewManager constructs a Manager. secure marks cookies Secure/SameSite=None.
func NewManager(secret, cookieName string, secure bool) *Manager {
	return &Manager{
		secret:     []byte(secret),
		cookieName: cookieName,
		secure:     secure,
		now:        time.Now,
	}
}

// Sign creates a token for sessionID and returns it with its expiry.
func (m *Manager) Sign(sessionID string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(tokenLifetime)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(m.secret)
	return ss, exp, err
}

// OnReissue registers fn to run when Ensure replaces an expired session.
// fn receives the request context and the expired session ID.
func (m *Manager) OnReissue(fn func(ctx context.Context, staleID string)) {
	m.onReissue = fn
}

// Parse verifies a token and returns the session ID it carries.
func (m *Manager) Parse(token string) (string, error) {
	id, err := m.verify(token)
	if err != nil {
		return "", err
	}
	return id, nil
}

// verify checks the signature and subject, then the expiry. An expired
// token still yields its session ID alongside ErrExpiredToken.
func (m *Manager) verify(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !m.now().Before(claims.ExpiresAt.Time) {
		return claims.Subject, ErrExpiredToken
	}
	return claims.Subject, nil
}

// Ensure returns the request's session ID, minting and setting a new
// cookie when the request carries no valid token.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if tok := m.tokenFrom(r); tok != "" {
		id, err := m.verify(tok)
		if err == nil {
			return id, nil
		}
		if errors.Is(err, ErrExpiredToken) && m.onReissue != nil {
			m.onReissue(r.Context(), id)
		}
	}
	id := uuid.NewString()
	tok, exp, err := m.Sign(id)
	if err != nil {
		return "", err
	}
	m.setCookie(w, tok, exp)
	return id, nil
}

// tokenFrom extracts a bearer token from the Authorization header or the session cookie.
func (m *Manager) tokenFrom(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(m.cookieName); err == nil {
		return c.Value
	}
	return ""
}

func (m *Manager) setCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if m.secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

type ctxKey struct{}

// WithID stores a session ID in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFrom returns the session ID stored by WithID, or "".
func IDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware ensures every request carries a session ID in its context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.Ensure(w, r)
		if err != nil {
			http.Error(w, `{"error":"session_failed"}`, http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
