package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock-system/config"
	"timeclock-system/internal/gateway/clients"
	"timeclock-system/internal/utils"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		Auth:    config.AuthConfig{AdminPIN: "1234", JWTSecret: "secret", TokenTTL: time.Hour},
		Gateway: config.GatewayConfig{Port: "0", RateLimit: "1000-M"},
	}
	r, err := newRouter(cfg, &clients.GRPCClients{})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return r
}

func request(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesWithoutServices(t *testing.T) {
	r := testRouter(t)

	w := request(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusPartialContent || !strings.Contains(w.Body.String(), "degraded") {
		t.Fatalf("expected degraded health, got %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Payroll-Service") != "unavailable" {
		t.Fatalf("expected payroll service header to report unavailable")
	}

	if w := request(r, http.MethodPost, "/api/v1/clock/punch", `{"employee_id":1}`, ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for clock punch, got %d", w.Code)
	}

	if w := request(r, http.MethodGet, "/api/v1/payrolls", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, _, err := utils.GenerateToken([]byte("secret"), "admin", utils.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if w := request(r, http.MethodGet, "/api/v1/payrolls", "", token); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with token, got %d", w.Code)
	}
	if w := request(r, http.MethodPost, "/api/v1/payroll/drafts/abc/confirm", "", token); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for confirm, got %d", w.Code)
	}
}

func TestAdminLoginRoute(t *testing.T) {
	r := testRouter(t)

	if w := request(r, http.MethodPost, "/api/v1/auth/admin", `{"pin":"9999"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	w := request(r, http.MethodPost, "/api/v1/auth/admin", `{"pin":"1234"}`, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "token") {
		t.Fatalf("expected token, got %d %s", w.Code, w.Body.String())
	}
}
