package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSignAndParseRoundTrip(t *testing.T) {
	m := NewManager("secret", "guess_session", false)
	id := uuid.NewString()

	tok, exp, err := m.Sign(id)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", exp)
	}
	got, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	tok, _, err := NewManager("one", "c", false).Sign(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewManager("two", "c", false).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("secret", "c", false)
	m.now = func() time.Time { return time.Now().Add(-60 * 24 * time.Hour) }
	tok, _, err := m.Sign(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	m.now = time.Now
	if _, err := m.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}

func TestParseRejectsNonUUIDSubject(t *testing.T) {
	m := NewManager("secret", "c", false)
	tok, _, err := m.Sign("not-a-uuid")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestEnsureMintsAndReusesSession(t *testing.T) {
	m := NewManager("secret", "guess_session", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	id, err := m.Ensure(rec, req)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "guess_session" {
		t.Fatalf("expected session cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	id2, err := m.Ensure(rec2, req2)
	if err != nil {
		t.Fatalf("ensure with cookie: %v", err)
	}
	if id2 != id {
		t.Fatalf("expected reused session %q, got %q", id, id2)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie for valid session")
	}
}

func TestEnsureAcceptsBearerToken(t *testing.T) {
	m := NewManager("secret", "guess_session", false)
	id := uuid.NewString()
	tok, _, err := m.Sign(id)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	got, err := m.Ensure(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}
}

func TestMiddlewareSetsContext(t *testing.T) {
	m := NewManager("secret", "guess_session", true)
	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IDFrom(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid session in context, got %q", seen)
	}
	c := rec.Result().Cookies()
	if len(c) != 1 || !c[0].Secure || c[0].SameSite != http.SameSiteNoneMode {
		t.Fatalf("expected secure SameSite=None cookie, got %v", c)
	}
}

func TestEnsureReissuesExpiredSession(t *testing.T) {
	m := NewManager("secret", "guess_session", false)
	stale := uuid.NewString()
	m.now = func() time.Time { return time.Now().Add(-60 * 24 * time.Hour) }
	tok, _, err := m.Sign(stale)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	m.now = time.Now

	var dropped []string
	m.OnReissue(func(_ context.Context, id string) { dropped = append(dropped, id) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "guess_session", Value: tok})
	rec := httptest.NewRecorder()
	id, err := m.Ensure(rec, req)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if id == stale {
		t.Fatalf("expected a fresh session, got the expired one")
	}
	if len(dropped) != 1 || dropped[0] != stale {
		t.Fatalf("expected reissue hook for %q, got %v", stale, dropped)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected a new session cookie")
	}
}

func TestEnsureSkipsReissueHookForForgedTokens(t *testing.T) {
	forged, _, err := NewManager("other", "c", false).Sign(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	m := NewManager("secret", "guess_session", false)
	called := false
	m.OnReissue(func(context.Context, string) { called = true })

	for _, tok := range []string{forged, "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		if _, err := m.Ensure(httptest.NewRecorder(), req); err != nil {
			t.Fatalf("ensure: %v", err)
		}
	}
	if called {
		t.Fatalf("hook must only fire for genuine expired tokens")
	}
}

func TestParseExpiredIsInvalid(t *testing.T) {
	m := NewManager("secret", "c", false)
	m.now = func() time.Time { return time.Now().Add(-60 * 24 * time.Hour) }
	tok, _, err := m.Sign(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	m.now = time.Now
	id, err := m.Parse(tok)
	if !errors.Is(err, ErrExpiredToken) || !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrExpiredToken wrapping ErrInvalidToken, got %v", err)
	}
	if id != "" {
		t.Fatalf("expected no session ID from Parse, got %q", id)
	}
}
