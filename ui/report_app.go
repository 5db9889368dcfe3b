package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"statviz/app"
	"statviz/domain/core"
	internal "statviz/internal"
	"statviz/internal/report"
)

// App serves stored analyses as HTML reports.
type App struct {
	router   *chi.Mux
	service  *app.AnalysisService
	renderer *report.Renderer
	logger   *internal.Logger
}

// NewApp creates the report application.
func NewApp(service *app.AnalysisService, logger *internal.Logger) *App {
	a := &App{
		router:   chi.NewRouter(),
		service:  service,
		renderer: report.NewRenderer("Analysis Report"),
		logger:   logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/reports/{id}", a.handleReport)
	a.router.Get("/reports/{id}.md", a.handleReportMarkdown)
}

// Run starts the report app on the given address.
func (a *App) Run(addr string) error {
	a.logger.Info("report app listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the chi mux, mainly for tests.
func (a *App) Router() *chi.Mux {
	return a.router
}

// handleIndex lists stored analyses as a rendered markdown page.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	records, err := a.service.List(r.Context(), 100, 0)
	if err != nil {
		a.logger.Error("list analyses failed: %v", err)
		http.Error(w, "failed to list analyses", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	b.WriteString("# Stored Analyses\n\n")
	if len(records) == 0 {
		b.WriteString("No analyses stored yet.\n")
	} else {
		b.WriteString("| Created | Dataset | Analysis | Status | Annotation |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, rec := range records {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | [%s](/reports/%s) |\n",
				rec.CreatedAt.Format("2006-01-02 15:04"),
				rec.DatasetName, rec.EntryPoint, rec.Status,
				rec.Subtitle, rec.ID)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(a.renderer.HTML(b.String()))
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	md, ok := a.buildReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(a.renderer.HTML(md))
}

func (a *App) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	md, ok := a.buildReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

func (a *App) buildReport(w http.ResponseWriter, r *http.Request) (string, bool) {
	rawID := strings.TrimSuffix(chi.URLParam(r, "id"), ".md")
	id, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "invalid analysis id", http.StatusBadRequest)
		return "", false
	}

	record, err := a.service.Get(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "analysis not found", http.StatusNotFound)
			return "", false
		}
		a.logger.Error("fetch analysis %s failed: %v", id, err)
		http.Error(w, "failed to fetch analysis", http.StatusInternalServerError)
		return "", false
	}

	var outcome app.RunOutcome
	if err := json.Unmarshal(record.Result, &outcome); err != nil {
		a.logger.Error("decode stored result %s failed: %v", id, err)
		http.Error(w, "stored result is unreadable", http.StatusInternalServerError)
		return "", false
	}

	if outcome.Grouped != nil {
		return a.renderer.GroupedMarkdown(record.DatasetName, record.EntryPoint, outcome.Grouped), true
	}
	if outcome.Result != nil {
		return a.renderer.Markdown(record.DatasetName, record.EntryPoint, outcome.Result), true
	}
	http.Error(w, "stored result is empty", http.StatusInternalServerError)
	return "", false
}
