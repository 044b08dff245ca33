// Package httpapi is the local companion surface for presentation layers:
// it accepts the same raw job shape the job builder consumes, starts runs
// asynchronously and exposes live per-angle progress.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
	"github.com/theMaxscriptGuy/archviz-ai/internal/infra"
	"github.com/theMaxscriptGuy/archviz-ai/internal/jobbuilder"
	"github.com/theMaxscriptGuy/archviz-ai/internal/render"
	"github.com/theMaxscriptGuy/archviz-ai/internal/storage"
)

// apiKeyHeader carries the generation API key per request. It is read once,
// passed down the call chain and never stored or logged.
const apiKeyHeader = "X-Api-Key"

// App bundles the dependencies the handlers need.
type App struct {
	cfg    *infra.Config
	logger infra.Logger
	client render.Generator
	store  *storage.FileStore
	runs   *registry
}

// NewApp builds the handler container.
func NewApp(cfg *infra.Config, logger infra.Logger, client render.Generator, store *storage.FileStore) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		client: client,
		store:  store,
		runs:   newRegistry(),
	}
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ValidateJob runs the job builder without dispatching anything, returning
// the full violation list so a form can highlight every problem at once.
func (a *App) ValidateJob(w http.ResponseWriter, r *http.Request) {
	var input jobbuilder.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if _, err := jobbuilder.Build(input); err != nil {
		if verr, ok := domain.AsValidation(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"valid":      false,
				"violations": verr.Violations,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// StartRender validates the job, registers a run and kicks off the
// orchestrator in the background. Responds 202 with the run id.
func (a *App) StartRender(w http.ResponseWriter, r *http.Request) {
	apiKey := strings.TrimSpace(r.Header.Get(apiKeyHeader))
	if apiKey == "" {
		apiKey = a.cfg.GeminiAPIKey
	}
	if apiKey == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing API key: set " + apiKeyHeader + " or GEMINI_API_KEY"})
		return
	}

	var input jobbuilder.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	job, err := jobbuilder.Build(input)
	if err != nil {
		if verr, ok := domain.AsValidation(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":      "job validation failed",
				"violations": verr.Violations,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	entry := newRunEntry(uuid.NewString(), cancel)
	a.runs.add(entry)

	orch, err := render.New(render.Options{
		Client:     a.client,
		Store:      a.store,
		Logger:     &a.logger,
		OnProgress: entry.update,
	})
	if err != nil {
		cancel()
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	go func() {
		defer cancel()
		report, err := orch.Run(runCtx, job, apiKey)
		if err != nil {
			a.logger.Error().Err(err).Str("run_id", entry.id).Msg("httpapi: run aborted")
			entry.fail(err)
			return
		}
		entry.finish(report)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": entry.id})
}

// RenderStatus returns the live per-angle states for one run.
func (a *App) RenderStatus(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.runs.get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown run"})
		return
	}
	writeJSON(w, http.StatusOK, entry.snapshot())
}

// CancelRender stops dispatch of angles that have not started yet. Results
// already produced are retained.
func (a *App) CancelRender(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.runs.get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown run"})
		return
	}
	entry.cancel()
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": entry.id, "status": "cancelling"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
