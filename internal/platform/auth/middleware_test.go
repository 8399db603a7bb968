package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret-key")

func TestIssueAndParseToken(t *testing.T) {
	userID := uuid.New()
	token, err := IssueToken(testSecret, userID, "ana@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("expected email ana@example.com, got %s", claims.Email)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, uuid.New(), "ana@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := ParseToken([]byte("other-secret"), token); err == nil {
		t.Fatal("expected error for token signed with different secret")
	}
}

func TestJWTMiddleware_MissingCredentials(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/me")

	mw := JWTMiddleware(testSecret)
	h := mw(func(c echo.Context) error {
		t.Error("handler should not be called without credentials")
		return nil
	})

	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", httpErr.Code)
	}
}

func TestJWTMiddleware_BearerToken(t *testing.T) {
	userID := uuid.New()
	token, err := IssueToken(testSecret, userID, "ana@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/me")

	mw := JWTMiddleware(testSecret)
	h := mw(func(c echo.Context) error {
		if got := UserIDFromContext(c.Request().Context()); got != userID {
			t.Errorf("expected user %s in context, got %s", userID, got)
		}
		if got := EmailFromContext(c.Request().Context()); got != "ana@example.com" {
			t.Errorf("expected email in context, got %s", got)
		}
		return c.String(http.StatusOK, "ok")
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJWTMiddleware_SessionCookie(t *testing.T) {
	userID := uuid.New()
	token, err := IssueToken(testSecret, userID, "ana@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/me")

	mw := JWTMiddleware(testSecret)
	h := mw(func(c echo.Context) error {
		if got := UserIDFromContext(c.Request().Context()); got != userID {
			t.Errorf("expected user %s in context, got %s", userID, got)
		}
		return c.String(http.StatusOK, "ok")
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/me")

	mw := JWTMiddleware(testSecret)
	h := mw(func(c echo.Context) error {
		t.Error("handler should not be called with an invalid token")
		return nil
	})

	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", httpErr.Code)
	}
}

func TestJWTMiddleware_SkipsPublicPaths(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/auth/login")

	called := false
	mw := JWTMiddleware(testSecret)
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to be called for public path")
	}
}

func TestDevAuthMiddleware_InjectsDefaultUser(t *testing.T) {
	devUser := uuid.New()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/me")

	mw := DevAuthMiddleware(testSecret, devUser)
	h := mw(func(c echo.Context) error {
		if got := UserIDFromContext(c.Request().Context()); got != devUser {
			t.Errorf("expected dev user %s, got %s", devUser, got)
		}
		return c.String(http.StatusOK, "ok")
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDevAuthMiddleware_HonorsProvidedToken(t *testing.T) {
	devUser := uuid.New()
	realUser := uuid.New()
	token, err := IssueToken(testSecret, realUser, "ana@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/me")

	mw := DevAuthMiddleware(testSecret, devUser)
	h := mw(func(c echo.Context) error {
		if got := UserIDFromContext(c.Request().Context()); got != realUser {
			t.Errorf("expected authenticated user %s, got %s", realUser, got)
		}
		return c.String(http.StatusOK, "ok")
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIsPublicPath(t *testing.T) {
	if !IsPublicPath("/health") {
		t.Error("expected /health to be public")
	}
	if !IsPublicPath("/api/v1/auth/register") {
		t.Error("expected register to be public")
	}
	if IsPublicPath("/api/v1/me") {
		t.Error("expected /api/v1/me to require auth")
	}
}
