// Package render walks every camera angle of a job, dispatches one
// generation call per angle and persists the results under a fresh
// timestamped run directory.
package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
	"github.com/theMaxscriptGuy/archviz-ai/internal/genai"
	"github.com/theMaxscriptGuy/archviz-ai/internal/infra"
	"github.com/theMaxscriptGuy/archviz-ai/internal/promptbuilder"
	"github.com/theMaxscriptGuy/archviz-ai/internal/storage"
)

// Generator is the single seam to the external image-generation service.
// *genai.Client satisfies it.
type Generator interface {
	GenerateImage(ctx context.Context, apiKey string, req domain.GenerationRequest) (*genai.ImageAsset, error)
}

// ProgressFunc receives a snapshot of a result each time its state changes.
// It is called from the orchestrator's goroutine; consumers that must not
// block should hand the snapshot off to their own channel.
type ProgressFunc func(domain.GenerationResult)

// Options configures an Orchestrator.
type Options struct {
	Client     Generator
	Store      *storage.FileStore
	Logger     *infra.Logger
	OnProgress ProgressFunc
	Now        func() time.Time
}

// Orchestrator runs a full job: exterior angles first, then each room's
// angles in declared order. Angles are processed sequentially; one angle
// failing never aborts its siblings.
type Orchestrator struct {
	client     Generator
	store      *storage.FileStore
	logger     infra.Logger
	onProgress ProgressFunc
	now        func() time.Time
}

// New constructs an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Client == nil {
		return nil, errors.New("render: generator client is required")
	}
	if opts.Store == nil {
		return nil, errors.New("render: output store is required")
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		client:     opts.Client,
		store:      opts.Store,
		logger:     logger,
		onProgress: opts.OnProgress,
		now:        now,
	}, nil
}

type angleWork struct {
	sel   domain.Selector
	room  int // one-based room ordinal, 0 for exterior
	index int
	angle domain.CameraAngle
}

// Run processes every camera angle of the job and returns one
// GenerationResult per angle. Cancelling ctx stops dispatch of angles that
// have not started yet; finished results and their files are retained and
// the remaining angles are reported as CANCELLED.
func (o *Orchestrator) Run(ctx context.Context, job *domain.RenderJob, apiKey string) (*domain.RunReport, error) {
	if job == nil {
		return nil, errors.New("render: job is required")
	}
	if job.AngleCount() == 0 {
		return nil, &domain.ValidationError{Violations: []string{"at least one camera angle is required (exterior or any room)"}}
	}

	runID := uuid.NewString()
	runDir := fmt.Sprintf("%s_%s", o.now().UTC().Format("20060102-150405"), runID[:8])
	report := &domain.RunReport{
		RunID:     runID,
		OutputDir: filepath.Join(o.store.BasePath(), runDir),
		Model:     job.Model,
	}

	work := flattenAngles(job)
	o.logger.Info().
		Str("run_id", runID).
		Str("output_dir", report.OutputDir).
		Int("angles", len(work)).
		Msg("render: run started")

	cancelled := false
	for _, w := range work {
		if cancelled || ctx.Err() != nil {
			cancelled = true
			result := domain.GenerationResult{
				Selector:   w.sel,
				AngleIndex: w.index,
				Angle:      w.angle,
				State:      domain.AngleCancelled,
				Reason:     "run cancelled before this angle started",
			}
			report.Results = append(report.Results, result)
			o.notify(result)
			continue
		}
		result := o.renderAngle(ctx, job, apiKey, runDir, w)
		if result.State == domain.AngleCancelled {
			cancelled = true
		}
		report.Results = append(report.Results, result)
	}

	o.writeReport(runDir, report)
	o.logger.Info().
		Str("run_id", runID).
		Int("succeeded", report.Succeeded()).
		Int("failed", report.Failed()).
		Int("cancelled", report.Cancelled()).
		Msg("render: run finished")
	return report, nil
}

// renderAngle drives one angle through its lifecycle:
// PENDING -> REQUESTED -> SUCCEEDED | FAILED | CANCELLED.
func (o *Orchestrator) renderAngle(ctx context.Context, job *domain.RenderJob, apiKey, runDir string, w angleWork) domain.GenerationResult {
	result := domain.GenerationResult{
		Selector:   w.sel,
		AngleIndex: w.index,
		Angle:      w.angle,
		State:      domain.AnglePending,
	}
	o.notify(result)

	req, err := promptbuilder.BuildRequest(job, w.sel, w.index)
	if err != nil {
		return o.fail(result, err)
	}

	result.State = domain.AngleRequested
	o.notify(result)

	asset, err := o.client.GenerateImage(ctx, apiKey, *req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.State = domain.AngleCancelled
			result.Reason = "run cancelled while this angle was in flight"
			result.Err = err
			o.notify(result)
			return result
		}
		return o.fail(result, err)
	}

	// The write finishes even when cancellation lands mid-angle: an angle
	// that produced an image counts as completed, and its file is retained.
	key := runDir + "/" + outputKey(w.sel, w.room, w.index, w.angle, asset.MIME)
	path, err := o.store.Write(context.WithoutCancel(ctx), key, asset.Data)
	if err != nil {
		return o.fail(result, fmt.Errorf("%w: %v", domain.ErrOutputWrite, err))
	}

	result.State = domain.AngleSucceeded
	result.OutputPath = path
	o.logger.Info().
		Str("selector", w.sel.Label()).
		Str("angle", w.angle.Name).
		Str("path", path).
		Msg("render: angle succeeded")
	o.notify(result)
	return result
}

func (o *Orchestrator) fail(result domain.GenerationResult, err error) domain.GenerationResult {
	result.State = domain.AngleFailed
	result.Err = err
	result.Reason = err.Error()
	o.logger.Warn().
		Str("selector", result.Selector.Label()).
		Str("angle", result.Angle.Name).
		Err(err).
		Msg("render: angle failed")
	o.notify(result)
	return result
}

func (o *Orchestrator) notify(result domain.GenerationResult) {
	if o.onProgress != nil {
		o.onProgress(result)
	}
}

// writeReport drops a report.json summary into the run directory. Failing to
// write it does not fail the run; the in-memory report is still returned.
func (o *Orchestrator) writeReport(runDir string, report *domain.RunReport) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		o.logger.Warn().Err(err).Msg("render: encode report failed")
		return
	}
	if _, err := o.store.Write(context.Background(), runDir+"/report.json", data); err != nil {
		o.logger.Warn().Err(err).Msg("render: write report failed")
	}
}

// flattenAngles fixes the dispatch order: exterior first, then rooms as
// declared, then each section's angles as declared.
func flattenAngles(job *domain.RenderJob) []angleWork {
	work := make([]angleWork, 0, job.AngleCount())
	for i, angle := range job.Exterior.Angles {
		work = append(work, angleWork{sel: domain.ExteriorSelector(), index: i, angle: angle})
	}
	for r, room := range job.Rooms {
		for i, angle := range room.Angles {
			work = append(work, angleWork{sel: domain.RoomSelector(room.Name), room: r + 1, index: i, angle: angle})
		}
	}
	return work
}
