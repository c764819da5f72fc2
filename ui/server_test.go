package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GRousselet/post-nocrisis/app"
	"github.com/GRousselet/post-nocrisis/domain/core"
	"github.com/GRousselet/post-nocrisis/domain/simulation"
	"github.com/GRousselet/post-nocrisis/internal/testkit"
	"github.com/GRousselet/post-nocrisis/ports"
)

func seededServer(t *testing.T) (*Server, *simulation.Result) {
	t.Helper()
	store := testkit.NewInMemoryStore()

	params := testkit.SmallParams(4)
	params.RunID = core.NewRunID()
	params.EffectSize = 0.66
	result := simulation.NewResult(params)
	for trial := 0; trial < 3; trial++ {
		result.SetOutcome(simulation.Shifted, trial, 0, 0, true)
	}
	if err := store.Save(t.Context(), result); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	return NewServer(store), result
}

func TestListRuns(t *testing.T) {
	server, result := seededServer(t)

	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var summaries []ports.RunSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(summaries))
	}
	if summaries[0].RunID != result.Params.RunID {
		t.Errorf("Expected run %s, got %s", result.Params.RunID, summaries[0].RunID)
	}
}

func TestRatesEndpoint(t *testing.T) {
	server, result := seededServer(t)

	req := httptest.NewRequest(http.MethodGet, "/runs/"+result.Params.RunID.String()+"/rates", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected JSON content type, got %q", got)
	}

	var rates app.RunRates
	if err := json.Unmarshal(rec.Body.Bytes(), &rates); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(rates.Power) != 9 {
		t.Errorf("Expected 3 shapes x 3 trims = 9 power points, got %d", len(rates.Power))
	}
	if len(rates.Consistency) != 9 {
		t.Errorf("Expected 9 consistency rows, got %d", len(rates.Consistency))
	}
}

func TestReportEndpoint(t *testing.T) {
	server, result := seededServer(t)

	req := httptest.NewRequest(http.MethodGet, "/runs/"+result.Params.RunID.String()+"/report", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/html") {
		t.Errorf("Expected HTML content type, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), "<h1") {
		t.Error("Expected rendered HTML heading in report body")
	}
}

func TestUnknownRunReturns404(t *testing.T) {
	server, _ := seededServer(t)

	req := httptest.NewRequest(http.MethodGet, "/runs/no-such-run/rates", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown run, got %d", rec.Code)
	}
}
