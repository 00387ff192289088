package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/benefits-service/internal/api/http/handlers"
	"github.com/spec-kit/benefits-service/internal/auth"
	"github.com/spec-kit/benefits-service/internal/config"
	"github.com/spec-kit/benefits-service/internal/events"
	"github.com/spec-kit/benefits-service/internal/observability"
	"github.com/spec-kit/benefits-service/internal/repository/memory"
	"github.com/spec-kit/benefits-service/internal/service"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

type testEnv struct {
	app     *fiber.App
	metrics *observability.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: bcrypt.MinCost}}

	users := memory.NewUserRepository()
	cases := memory.NewCaseRepository()
	history := memory.NewCaseHistoryRepository()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, Logger: logger})
	if err := authService.EnsureBootstrapAdmin(context.Background(), adminEmail, adminPassword); err != nil {
		t.Fatalf("EnsureBootstrapAdmin: %v", err)
	}
	caseService := service.NewCaseService(service.CaseDependencies{CaseRepo: cases, Dispatcher: dispatcher, Logger: logger})
	adminService := service.NewCaseAdminService(service.CaseAdminDependencies{
		CaseRepo:    cases,
		UserRepo:    users,
		HistoryRepo: history,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{Logger: logger, Metrics: metrics, AllowOrigins: "*"})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("benefits", "test", nil),
		Users:          handlers.NewUsersHandler(authService),
		Cases:          handlers.NewCasesHandler(caseService),
		AdminCases:     handlers.NewAdminCasesHandler(adminService),
		AdminUsers:     handlers.NewAdminUsersHandler(adminService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
	})
	return &testEnv{app: app, metrics: metrics}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func (e *testEnv) login(t *testing.T, email, password string) (string, string) {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d", email, status)
	}
	var session struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session.Auth.Token, session.User.ID
}

func (e *testEnv) registerCitizen(t *testing.T) string {
	t.Helper()
	status, _ := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Citizen", "email": "citizen@example.com", "password": "citizen-password",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: status %d", status)
	}
	token, _ := e.login(t, "citizen@example.com", "citizen-password")
	return token
}

func (e *testEnv) createCase(t *testing.T, token string) string {
	t.Helper()
	status, env := e.do(t, http.MethodPost, "/cases", token, map[string]any{"benefitType": "family", "address": "1 Main St"})
	if status != http.StatusCreated {
		t.Fatalf("create case: status %d", status)
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(env.Data, &created)
	return created.ID
}

func TestHealthAndBenefitsArePublic(t *testing.T) {
	env := newTestEnv(t)
	if status, _ := env.do(t, http.MethodGet, "/health/live", "", nil); status != http.StatusOK {
		t.Fatalf("live: status %d", status)
	}
	status, body := env.do(t, http.MethodGet, "/benefits", "", nil)
	if status != http.StatusOK {
		t.Fatalf("benefits: status %d", status)
	}
	var benefits []map[string]any
	_ = json.Unmarshal(body.Data, &benefits)
	if len(benefits) != 3 {
		t.Fatalf("expected 3 benefits, got %d", len(benefits))
	}
}

func TestCitizenCaseFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerCitizen(t)

	if status, body := env.do(t, http.MethodPost, "/cases", token, map[string]any{"benefitType": "pension"}); status != http.StatusBadRequest || body.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("invalid benefit: status %d", status)
	}

	id := env.createCase(t, token)
	status, body := env.do(t, http.MethodGet, "/cases/"+id, token, nil)
	if status != http.StatusOK {
		t.Fatalf("get case: status %d", status)
	}
	var mine struct {
		ClientStatus struct {
			Status   string `json:"status"`
			Timeline []any  `json:"timeline"`
		} `json:"clientStatus"`
	}
	_ = json.Unmarshal(body.Data, &mine)
	if mine.ClientStatus.Status != "in_approval_process" || len(mine.ClientStatus.Timeline) != 3 {
		t.Fatalf("unexpected client status: %+v", mine.ClientStatus)
	}

	status, body = env.do(t, http.MethodGet, "/cases/"+id+"/renewal-reminder", token, nil)
	if status != http.StatusOK || !bytes.Contains(body.Data, []byte("calendar.google.com")) {
		t.Fatalf("reminder: status %d body %s", status, body.Data)
	}
}

func TestAuthErrors(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerCitizen(t)

	if status, body := env.do(t, http.MethodGet, "/cases", "", nil); status != http.StatusUnauthorized || body.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("missing token: status %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/cases", "garbage", nil); status != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", status)
	}
	if status, body := env.do(t, http.MethodGet, "/admin/cases", token, nil); status != http.StatusForbidden || body.Error.Code != "FORBIDDEN" {
		t.Fatalf("citizen on admin route: status %d", status)
	}
	if status, _ := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "citizen@example.com", "password": "nope"}); status != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", status)
	}
}

func TestAdminProcessingFlow(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.registerCitizen(t)
	id := env.createCase(t, citizen)
	admin, _ := env.login(t, adminEmail, adminPassword)
	path := "/admin/cases/" + id

	status, body := env.do(t, http.MethodPatch, path+"/processing", admin, map[string]any{"stage": 4})
	if status != http.StatusBadRequest || body.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("close without reason: status %d", status)
	}
	if status, _ := env.do(t, http.MethodPatch, path+"/processing", admin, map[string]any{"stage": 9}); status != http.StatusBadRequest {
		t.Fatalf("out of range stage: status %d", status)
	}

	status, body = env.do(t, http.MethodPatch, path+"/processing", admin, map[string]any{"stage": 4, "rejectionReason": "Income above threshold"})
	if status != http.StatusOK {
		t.Fatalf("close case: status %d", status)
	}
	var closed struct {
		ProcessingStage     int    `json:"processingStage"`
		DetailedAdminStatus string `json:"detailedAdminStatus"`
		RejectionReason     string `json:"rejectionReason"`
	}
	_ = json.Unmarshal(body.Data, &closed)
	if closed.ProcessingStage != 4 || closed.RejectionReason != "Income above threshold" || closed.DetailedAdminStatus == "" {
		t.Fatalf("unexpected closed case: %+v", closed)
	}

	if status, body := env.do(t, http.MethodPatch, path+"/processing", admin, map[string]any{"stage": 2}); status != http.StatusConflict || body.Error.Code != "CONFLICT" {
		t.Fatalf("leave terminal stage: status %d", status)
	}
	if status, _ := env.do(t, http.MethodPatch, path+"/processing", admin, map[string]any{"stage": 2, "force": true}); status != http.StatusOK {
		t.Fatalf("forced move: status %d", status)
	}

	if status, _ := env.do(t, http.MethodPatch, path, admin, map[string]any{"status": "rejected"}); status != http.StatusOK {
		t.Fatalf("set status: status %d", status)
	}
	if status, _ := env.do(t, http.MethodPatch, path+"/confirm-completed", admin, nil); status != http.StatusOK {
		t.Fatalf("confirm: status %d", status)
	}

	status, body = env.do(t, http.MethodGet, path+"/history", admin, nil)
	var history []map[string]any
	_ = json.Unmarshal(body.Data, &history)
	if status != http.StatusOK || len(history) != 4 {
		t.Fatalf("history: status %d entries %d", status, len(history))
	}

	status, body = env.do(t, http.MethodGet, "/admin/cases?renewal=all", admin, nil)
	var list struct {
		Cases   []map[string]any `json:"cases"`
		Summary map[string]int   `json:"summary"`
	}
	_ = json.Unmarshal(body.Data, &list)
	if status != http.StatusOK || len(list.Cases) != 1 {
		t.Fatalf("dashboard: status %d cases %d", status, len(list.Cases))
	}

	if status, _ := env.do(t, http.MethodDelete, path, admin, nil); status != http.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	if status, body := env.do(t, http.MethodGet, path, admin, nil); status != http.StatusNotFound || body.Error.Code != "NOT_FOUND" {
		t.Fatalf("get deleted: status %d", status)
	}
}

func TestAdminDemotion(t *testing.T) {
	env := newTestEnv(t)
	admin, adminID := env.login(t, adminEmail, adminPassword)

	status, body := env.do(t, http.MethodPatch, "/admin/users/"+adminID+"/demote", admin, nil)
	if status != http.StatusBadRequest || body.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("self demotion: status %d", status)
	}
	if status, _ := env.do(t, http.MethodGet, "/admin/users", admin, nil); status != http.StatusOK {
		t.Fatalf("list users: status %d", status)
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, http.MethodGet, "/nope", "", nil)
	if status != http.StatusNotFound || body.Error == nil || body.Error.Code != "NOT_FOUND" {
		t.Fatalf("unknown route: status %d", status)
	}
	snap := env.metrics.Snapshot()
	if len(snap.Errors) == 0 {
		t.Fatalf("errors should be counted")
	}
	if len(snap.Requests) == 0 || len(snap.AvgLatency) != len(snap.Requests) {
		t.Fatalf("requests should be counted with latency: %+v", snap)
	}
}

func TestAdminViewReportsStoredStage(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.registerCitizen(t)
	admin, _ := env.login(t, adminEmail, adminPassword)
	unstaged := env.createCase(t, citizen)
	staged := env.createCase(t, citizen)

	for _, id := range []string{unstaged, staged} {
		if status, _ := env.do(t, http.MethodPatch, "/admin/cases/"+id, admin, map[string]any{"status": "approved"}); status != http.StatusOK {
			t.Fatalf("set status: status %d", status)
		}
	}
	if status, _ := env.do(t, http.MethodPatch, "/admin/cases/"+staged+"/processing", admin, map[string]any{"stage": 1}); status != http.StatusOK {
		t.Fatalf("stage case: status %d", status)
	}

	type adminView struct {
		ProcessingStage     int    `json:"processingStage"`
		DetailedAdminStatus string `json:"detailedAdminStatus"`
		ClientStatus        struct {
			Status string `json:"status"`
		} `json:"clientStatus"`
	}
	get := func(id string) adminView {
		status, body := env.do(t, http.MethodGet, "/admin/cases/"+id, admin, nil)
		if status != http.StatusOK {
			t.Fatalf("get case: status %d", status)
		}
		var v adminView
		_ = json.Unmarshal(body.Data, &v)
		return v
	}

	if v := get(unstaged); v.ProcessingStage != 0 || v.DetailedAdminStatus != "" || v.ClientStatus.Status != "approved_awaiting_deposit" {
		t.Fatalf("unstaged case: %+v", v)
	}
	if v := get(staged); v.ProcessingStage != 1 || v.DetailedAdminStatus != "Case opened, awaiting personal interview" || v.ClientStatus.Status != "in_approval_process" {
		t.Fatalf("staged case: %+v", v)
	}
}

func TestMalformedIDsAreNotFound(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.registerCitizen(t)
	admin, _ := env.login(t, adminEmail, adminPassword)

	requests := []struct {
		method, path, token string
	}{
		{http.MethodGet, "/cases/abc", citizen},
		{http.MethodGet, "/cases/abc/renewal-reminder", citizen},
		{http.MethodGet, "/admin/cases/abc", admin},
		{http.MethodDelete, "/admin/cases/abc", admin},
		{http.MethodPatch, "/admin/users/abc/demote", admin},
	}
	for _, r := range requests {
		status, body := env.do(t, r.method, r.path, r.token, nil)
		if status != http.StatusNotFound || body.Error == nil || body.Error.Code != "NOT_FOUND" {
			t.Fatalf("%s %s: status %d", r.method, r.path, status)
		}
	}
}
