package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"statviz/adapters/postgres"
	"statviz/app"
	"statviz/domain/dataset"
	internal "statviz/internal"
)

func testApp(t *testing.T) (*App, *app.AnalysisService) {
	t.Helper()
	service := app.NewAnalysisService(postgres.NewMemoryRepository())
	return NewApp(service, internal.NewLogger(internal.LogLevelError)), service
}

func seedAnalysis(t *testing.T, service *app.AnalysisService) *app.RunOutcome {
	t.Helper()
	rows := make([][]string, 0, 16)
	for i := 0; i < 8; i++ {
		rows = append(rows, []string{"control", fmt.Sprintf("%d", 10+i%3)})
		rows = append(rows, []string{"treatment", fmt.Sprintf("%d", 20+i%3)})
	}
	table := dataset.NewTable("trial", []string{"group", "score"}, rows)

	outcome, err := service.Run(context.Background(), table, app.AnalysisRequest{
		EntryPoint: app.EntryBetween,
		X:          "group",
		Y:          "score",
	})
	if err != nil {
		t.Fatalf("seed analysis: %v", err)
	}
	return outcome
}

func TestIndexListsStoredAnalyses(t *testing.T) {
	a, service := testApp(t)
	outcome := seedAnalysis(t, service)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	page := w.Body.String()
	if !strings.Contains(page, "Stored Analyses") {
		t.Error("index missing heading")
	}
	if !strings.Contains(page, "/reports/"+outcome.RecordID.String()) {
		t.Error("index missing report link")
	}
	if !strings.Contains(page, "trial") {
		t.Error("index missing dataset name")
	}
}

func TestIndexWithoutRecords(t *testing.T) {
	a, _ := testApp(t)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No analyses stored yet") {
		t.Error("empty index missing placeholder")
	}
}

func TestReportPage(t *testing.T) {
	a, service := testApp(t)
	outcome := seedAnalysis(t, service)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/"+outcome.RecordID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	page := w.Body.String()
	if !strings.Contains(page, "<html") {
		t.Error("expected an HTML page")
	}
	if !strings.Contains(page, "welch_t") {
		t.Error("report missing test name")
	}
}

func TestReportMarkdownVariant(t *testing.T) {
	a, service := testApp(t)
	outcome := seedAnalysis(t, service)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/"+outcome.RecordID.String()+".md", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "# Analysis Report") {
		t.Error("markdown body missing heading")
	}
}

func TestReportPage_InvalidAndMissingID(t *testing.T) {
	a, _ := testApp(t)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/nope", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/6b6c77cf-67a2-4b4e-8b6d-111111111111", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
}
