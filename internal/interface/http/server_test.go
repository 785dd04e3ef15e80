package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"affiliate-dashboard/internal/infra/memory"
	authinfra "affiliate-dashboard/internal/infrastructure/auth"
	"affiliate-dashboard/internal/infrastructure/config"
	"affiliate-dashboard/internal/infrastructure/external/backend"
	"affiliate-dashboard/internal/interface/devapi"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server   *Server
	sessions *memory.SessionStore
	upstream *httptest.Server
}

// newTestEnv 以參考上游 (記憶體資料 + 示範資料) 作為 gateway 的上游。
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	hasher := authinfra.BcryptHasher{Cost: bcrypt.MinCost}
	if err := devapi.Seed(context.Background(), store, hasher, time.Now().UTC()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	up := httptest.NewServer(devapi.NewServer(devapi.Config{
		Secret:      "upstream-secret",
		ManagerCode: "MGR",
		AdminCode:   "ADM",
	}, store, hasher, zerolog.Nop()).Handler())
	t.Cleanup(up.Close)

	cfg := config.Config{}
	cfg.Auth.Secret = "gateway-secret"
	sessions := memory.NewSessionStore()
	client := backend.NewClient(up.URL+"/api", 2*time.Second, zerolog.Nop())
	return &testEnv{
		server:   NewServer(cfg, client, sessions, zerolog.Nop()),
		sessions: sessions,
		upstream: up,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": devapi.SeedPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d. body: %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.AccessToken == "" {
		t.Fatalf("login %s: empty access_token", email)
	}
	return resp.AccessToken
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestServer_DashboardDispatch(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		email string
		role  string
		key   string
	}{
		{"manager1@example.com", "manager", "records"},
		{"traffer1@example.com", "traffer", "step"},
		{"admin@example.com", "admin", "managers"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token := env.login(t, tt.email)
			w := env.do(t, http.MethodGet, "/api/dashboard?period=week", token, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d. body: %s", w.Code, w.Body.String())
			}
			resp := decodeBody(t, w)
			if resp["role"] != tt.role {
				t.Errorf("expected role %s, got %v", tt.role, resp["role"])
			}
			view, _ := resp["view"].(map[string]any)
			if _, ok := view[tt.key]; !ok {
				t.Errorf("expected %s in view, got %v", tt.key, view)
			}
		})
	}
}

func TestServer_ManagerFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "manager1@example.com")

	w := env.do(t, http.MethodGet, "/api/manager", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("manager dashboard: %d %s", w.Code, w.Body.String())
	}
	view := decodeBody(t, w)["view"].(map[string]any)
	if records := view["records"].([]any); len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
	if plans := view["vipPlans"].([]any); len(plans) != 3 {
		t.Errorf("expected 3 plans, got %d", len(plans))
	}

	w = env.do(t, http.MethodPost, "/api/manager/bingx", token, map[string]any{"tradingVolume": 2000000})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit bingx: %d %s", w.Code, w.Body.String())
	}
	rec := decodeBody(t, w)["record"].(map[string]any)
	if rec["tradingProfit"] != "500" {
		t.Errorf("expected auto profit 500, got %v", rec["tradingProfit"])
	}

	w = env.do(t, http.MethodPost, "/api/manager/bingx", token, map[string]any{"adCosts": 10})
	if w.Code != http.StatusBadRequest || decodeBody(t, w)["error_code"] != errCodeValidation {
		t.Errorf("expected validation failure, got %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/manager/bingx/preview?volume=1000", token, nil)
	if got := decodeBody(t, w)["tradingProfit"]; got != "0.25" {
		t.Errorf("expected preview 0.25, got %v", got)
	}

	w = env.do(t, http.MethodPost, "/api/manager/trading/deposit", token, map[string]any{"initialDeposit": 100})
	if w.Code != http.StatusBadRequest {
		t.Errorf("second deposit expected 400, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/manager/trading/operations", token, map[string]any{"type": "Loss", "amount": 25, "description": "stop hit"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add operation: %d %s", w.Code, w.Body.String())
	}
	opID := decodeBody(t, w)["operation"].(map[string]any)["id"].(string)
	w = env.do(t, http.MethodDelete, "/api/manager/trading/operations/"+opID, token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("remove operation: %d %s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodDelete, "/api/manager/trading/operations/"+opID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second remove expected 404, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/manager/vip/members", token, map[string]any{"name": "Zed"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("member without plan expected 400, got %d", w.Code)
	}
	w = env.do(t, http.MethodPost, "/api/manager/vip/members", token, map[string]any{"name": "Zed", "planId": "plan-premium"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add member: %d %s", w.Code, w.Body.String())
	}
	memberID := decodeBody(t, w)["member"].(map[string]any)["id"].(string)
	w = env.do(t, http.MethodDelete, "/api/manager/vip/members/"+memberID, token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("remove member: %d", w.Code)
	}
}

func TestServer_TrafferFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "traffer2@example.com")

	w := env.do(t, http.MethodGet, "/api/traffer", token, nil)
	view := decodeBody(t, w)["view"].(map[string]any)
	if view["step"] != "reports" {
		t.Errorf("expected reports step, got %v", view["step"])
	}
	stats := view["stats"].(map[string]any)
	if stats["totalViews"] != float64(8750) {
		t.Errorf("expected 8750 views, got %v", stats["totalViews"])
	}

	w = env.do(t, http.MethodPost, "/api/traffer/reports", token, map[string]any{"platform": "youtube", "videosUploaded": 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unselected platform expected 400, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/traffer/platforms", token, map[string]any{"platforms": []string{"YouTube", "tiktok", "youtube"}})
	if w.Code != http.StatusOK {
		t.Fatalf("save platforms: %d %s", w.Code, w.Body.String())
	}
	if platforms := decodeBody(t, w)["platforms"].([]any); len(platforms) != 2 {
		t.Errorf("expected 2 platforms, got %d", len(platforms))
	}

	w = env.do(t, http.MethodPost, "/api/traffer/reports", token, map[string]any{"platform": "youtube", "videosUploaded": 1, "views": 40, "engagement": 2.5})
	if w.Code != http.StatusCreated {
		t.Errorf("add report: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/manager", token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("traffer on manager route expected 403, got %d", w.Code)
	}
}

func TestServer_AdminReport(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin@example.com")

	w := env.do(t, http.MethodGet, "/api/admin/report", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("report: %d %s", w.Code, w.Body.String())
	}
	rep := decodeBody(t, w)["report"].(map[string]any)
	totals := rep["totals"].(map[string]any)
	if totals["totalReferrals"] != float64(98) {
		t.Errorf("expected 98 referrals, got %v", totals["totalReferrals"])
	}
	if managers := rep["managers"].([]any); len(managers) != 3 {
		t.Errorf("expected 3 managers, got %d", len(managers))
	}
	if traffers := rep["traffers"].([]any); len(traffers) != 2 {
		t.Errorf("expected 2 traffers, got %d", len(traffers))
	}

	w = env.do(t, http.MethodGet, "/api/admin/report?period=today", token, nil)
	rep = decodeBody(t, w)["report"].(map[string]any)
	if rep["totals"].(map[string]any)["totalReferrals"] != float64(22) {
		t.Errorf("expected 22 referrals today, got %v", rep["totals"].(map[string]any)["totalReferrals"])
	}

	w = env.do(t, http.MethodGet, "/api/admin/report.csv?period=week", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("csv: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %s", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "owner_id,name,email") {
		t.Errorf("unexpected csv: %s", w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/admin/users", token, map[string]string{
		"name": "Manager_4", "email": "manager4@example.com", "password": "secret1", "role": "manager",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("create user: %d %s", w.Code, w.Body.String())
	}

	manager := env.login(t, "manager1@example.com")
	w = env.do(t, http.MethodGet, "/api/admin/report", manager, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("manager on admin route expected 403, got %d", w.Code)
	}
}
