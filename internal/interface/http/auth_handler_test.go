package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"affiliate-dashboard/internal/domain/auth"
	authinfra "affiliate-dashboard/internal/infrastructure/auth"
)

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)

	t.Run("LoginSuccess", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "admin@example.com",
			"password": "password123",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. body: %s", w.Code, w.Body.String())
		}

		resp := decodeBody(t, w)
		if resp["success"] != true {
			t.Errorf("expected success true, got %v", resp["success"])
		}
		if resp["access_token"] == "" {
			t.Error("expected access_token, got empty")
		}
		user := resp["user"].(map[string]any)
		if user["role"] != "admin" {
			t.Errorf("expected admin role, got %v", user["role"])
		}

		found := false
		for _, c := range w.Result().Cookies() {
			if c.Name == accessCookieName && c.HttpOnly {
				found = true
			}
		}
		if !found {
			t.Error("expected HttpOnly access_token cookie")
		}
	})

	t.Run("LoginFailure", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "admin@example.com",
			"password": "wrong-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
		if code := decodeBody(t, w)["error_code"]; code != errCodeInvalidCredentials {
			t.Errorf("expected %s, got %v", errCodeInvalidCredentials, code)
		}
	})

	t.Run("MissingEmail", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": "x"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("UpstreamDown", func(t *testing.T) {
		down := newTestEnv(t)
		down.upstream.Close()
		w := down.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@example.com", "password": "secret1"})
		if w.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", w.Code)
		}
	})
}

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
		wantErr  string
	}{
		{"Traffer", map[string]string{"name": "T9", "email": "t9@example.com", "password": "secret1"}, http.StatusCreated, ""},
		{"ManagerWithoutCode", map[string]string{"name": "M9", "email": "m9@example.com", "password": "secret1", "role": "manager"}, http.StatusBadRequest, errCodeValidation},
		{"ManagerWrongCode", map[string]string{"name": "M9", "email": "m9@example.com", "password": "secret1", "role": "manager", "secretCode": "nope"}, http.StatusForbidden, errCodeForbidden},
		{"ManagerGoodCode", map[string]string{"name": "M9", "email": "m9@example.com", "password": "secret1", "role": "manager", "secretCode": "MGR"}, http.StatusCreated, ""},
		{"DuplicateEmail", map[string]string{"name": "M9", "email": "m9@example.com", "password": "secret1"}, http.StatusBadRequest, errCodeUpstreamRejected},
		{"ShortPassword", map[string]string{"name": "X", "email": "x@example.com", "password": "123"}, http.StatusBadRequest, errCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d. body: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantErr != "" {
				if code := decodeBody(t, w)["error_code"]; code != tt.wantErr {
					t.Errorf("expected %s, got %v", tt.wantErr, code)
				}
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "traffer1@example.com")
	claims, err := env.server.tokens.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	w := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == accessCookieName && c.MaxAge != -1 {
			t.Error("expected access_token cookie to be cleared")
		}
	}
	if _, err := env.sessions.GetSession(context.Background(), claims.SessionID); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("expected session deleted, got %v", err)
	}

	w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("anonymous logout expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "manager2@example.com")

	w := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	user := decodeBody(t, w)["user"].(map[string]any)
	if user["name"] != "Manager_2" {
		t.Errorf("expected Manager_2, got %v", user["name"])
	}

	if _, err := env.server.tokens.Parse(token + "x"); !errors.Is(err, authinfra.ErrInvalidToken) {
		t.Errorf("expected invalid token, got %v", err)
	}
}
