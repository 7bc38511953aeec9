package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vhht/vhhtbot/internal/app/features/health"
	"github.com/vhht/vhhtbot/internal/testutil"
	"go.uber.org/zap"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, body
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), nil, zap.NewNop())

	rec, body := serve(t, handler)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	if body.Status != "ok" || body.Database != "connected" {
		t.Errorf("body = %+v", body)
	}
	if body.Cache != "" {
		t.Errorf("cache reported without a cache: %q", body.Cache)
	}
}

func TestServe_CacheDown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cache := pingerFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })
	handler := health.NewHandler(db.Client(), cache, zap.NewNop())

	rec, body := serve(t, handler)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if body.Status != "error" || body.Database != "connected" || body.Cache != "disconnected" {
		t.Errorf("body = %+v", body)
	}
}

func TestServe_CacheUp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cache := pingerFunc(func(context.Context) error { return nil })
	handler := health.NewHandler(db.Client(), cache, zap.NewNop())

	rec, body := serve(t, handler)

	if rec.Code != http.StatusOK || body.Cache != "connected" {
		t.Errorf("status %d, body %+v", rec.Code, body)
	}
}
