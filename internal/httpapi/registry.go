package httpapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
)

// runEntry tracks one in-flight or finished run for the daemon's consumers.
// The orchestrator reports progress from its own goroutine, so every access
// goes through the mutex.
type runEntry struct {
	mu      sync.Mutex
	id      string
	order   []string
	results map[string]domain.GenerationResult
	report  *domain.RunReport
	runErr  error
	done    bool
	cancel  context.CancelFunc
}

func newRunEntry(id string, cancel context.CancelFunc) *runEntry {
	return &runEntry{
		id:      id,
		results: make(map[string]domain.GenerationResult),
		cancel:  cancel,
	}
}

func angleKey(result domain.GenerationResult) string {
	return fmt.Sprintf("%s/%d", result.Selector.Label(), result.AngleIndex)
}

// update records a progress snapshot from the orchestrator.
func (e *runEntry) update(result domain.GenerationResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := angleKey(result)
	if _, seen := e.results[key]; !seen {
		e.order = append(e.order, key)
	}
	e.results[key] = result
}

// finish stores the final report.
func (e *runEntry) finish(report *domain.RunReport) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.report = report
	e.done = true
}

// fail marks a run that aborted before producing a report, so a poller can
// tell it apart from a run that finished with nothing to do.
func (e *runEntry) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runErr = err
	e.done = true
}

// snapshot returns a copy safe to serialize without holding the lock.
func (e *runEntry) snapshot() runStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	status := runStatus{
		RunID:   e.id,
		Done:    e.done,
		Results: make([]domain.GenerationResult, 0, len(e.order)),
	}
	for _, key := range e.order {
		status.Results = append(status.Results, e.results[key])
	}
	if e.report != nil {
		status.OutputDir = e.report.OutputDir
		status.Succeeded = e.report.Succeeded()
		status.Failed = e.report.Failed()
		status.Cancelled = e.report.Cancelled()
	}
	if e.runErr != nil {
		status.Error = e.runErr.Error()
	}
	return status
}

// runStatus is the wire shape returned by GET /v1/renders/{id}.
type runStatus struct {
	RunID     string                    `json:"run_id"`
	Done      bool                      `json:"done"`
	OutputDir string                    `json:"output_dir,omitempty"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
	Cancelled int                       `json:"cancelled"`
	Error     string                    `json:"error,omitempty"`
	Results   []domain.GenerationResult `json:"results"`
}

// registry is the daemon's in-memory index of runs.
type registry struct {
	mu   sync.Mutex
	runs map[string]*runEntry
}

func newRegistry() *registry {
	return &registry{runs: make(map[string]*runEntry)}
}

func (r *registry) add(entry *runEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[entry.id] = entry
}

func (r *registry) get(id string) (*runEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.runs[id]
	return entry, ok
}
