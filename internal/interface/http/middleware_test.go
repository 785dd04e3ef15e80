package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appauth "affiliate-dashboard/internal/application/auth"
	"affiliate-dashboard/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

func TestRequireAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)
	server := env.server
	token := env.login(t, "manager1@example.com")

	router := gin.New()
	router.GET("/protected", server.requireAuth(""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/admin-only", server.requireAuth(appauth.PermAdminReport), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("Unauthorized_NoToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Unauthorized_ForeignToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Authorized_ValidToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d. body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("Authorized_ValidCookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("Forbidden_MissingPermission", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/admin-only", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d. body: %s", w.Code, w.Body.String())
		}
	})
}

func TestRequireAuthMiddleware_SessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := auth.User{ID: "u-1", Name: "Ghost", Email: "ghost@example.com", Role: auth.RoleManager}

	issue := func(t *testing.T, sess auth.Session) string {
		t.Helper()
		if err := env.sessions.SaveSession(ctx, sess); err != nil {
			t.Fatalf("save session: %v", err)
		}
		token, _, err := env.server.tokens.Issue(sess.ID, sess.User)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		return token
	}

	t.Run("UpstreamRejectsToken", func(t *testing.T) {
		token := issue(t, auth.Session{ID: "s-stale", Token: "stale-upstream-token", User: user, ExpiresAt: time.Now().Add(time.Hour)})

		w := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d. body: %s", w.Code, w.Body.String())
		}
		if code := decodeBody(t, w)["error_code"]; code != errCodeUnauthorized {
			t.Errorf("expected %s, got %v", errCodeUnauthorized, code)
		}
		if _, err := env.sessions.GetSession(ctx, "s-stale"); !errors.Is(err, auth.ErrSessionNotFound) {
			t.Errorf("expected session to be deleted, got %v", err)
		}

		w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 after invalidation, got %d", w.Code)
		}
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		token := issue(t, auth.Session{ID: "s-old", Token: "whatever", User: user, ExpiresAt: time.Now().Add(time.Hour)})
		env.server.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { env.server.now = time.Now }()

		w := env.do(t, http.MethodGet, "/api/dashboard", token, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("UnknownRole", func(t *testing.T) {
		ghost := user
		ghost.Role = "owner"
		token := issue(t, auth.Session{ID: "s-role", Token: "whatever", User: ghost, ExpiresAt: time.Now().Add(time.Hour)})

		w := env.do(t, http.MethodGet, "/api/dashboard", token, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})
}
