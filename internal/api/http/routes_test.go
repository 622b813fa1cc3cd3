package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ovoronin/weather-report-bot/internal/store"
)

// TestHealthRoute verifies the liveness probe returns the fixed body
// the hosting platform expects.
func TestHealthRoute(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, store.NewMemoryStore(10, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "Weather Bot is Running" {
		t.Fatalf("unexpected body: %q", string(body))
	}
}

func TestLatestReportRoute(t *testing.T) {
	app := fiber.New()
	memStore := store.NewMemoryStore(10, time.Hour)
	RegisterRoutes(app, memStore)

	// Empty store should return 404.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	memStore.Save(store.GeneratedReport{Text: "report", GeneratedAt: time.Now().UTC()})

	req = httptest.NewRequest(http.MethodGet, "/api/v1/report/latest", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

// TestHistoryValidation verifies that the history endpoint enforces its
// required from/to query parameters.
func TestHistoryValidation(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, store.NewMemoryStore(10, time.Hour))

	// Missing parameters should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/history", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// to before from should also return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/report/history?from=2026-01-02T00:00:00Z&to=2026-01-01T00:00:00Z", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
