package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
	"github.com/theMaxscriptGuy/archviz-ai/internal/genai"
	"github.com/theMaxscriptGuy/archviz-ai/internal/infra"
	"github.com/theMaxscriptGuy/archviz-ai/internal/jobbuilder"
	"github.com/theMaxscriptGuy/archviz-ai/internal/render"
	"github.com/theMaxscriptGuy/archviz-ai/internal/storage"
)

func main() {
	_ = godotenv.Load()

	jobPath := flag.String("job", "", "path to a YAML/JSON job description (required)")
	outDir := flag.String("out", "", "output root directory (default: OUTPUT_DIR)")
	model := flag.String("model", "", "override the image model")
	validateOnly := flag.Bool("validate-only", false, "build and validate the job, then exit")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if *jobPath == "" {
		fmt.Fprintln(os.Stderr, "usage: archviz -job job.yaml [-out dir] [-model id] [-validate-only]")
		os.Exit(2)
	}

	input, err := jobbuilder.LoadInput(*jobPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("archviz: failed to load job file")
	}
	if *model != "" {
		input.Model = *model
	}
	if input.Model == "" {
		input.Model = cfg.GeminiModel
	}

	job, err := jobbuilder.Build(input)
	if err != nil {
		if verr, ok := domain.AsValidation(err); ok {
			for _, violation := range verr.Violations {
				logger.Error().Msg("validation: " + violation)
			}
			logger.Fatal().Int("violations", len(verr.Violations)).Msg("archviz: job is invalid")
		}
		logger.Fatal().Err(err).Msg("archviz: failed to build job")
	}
	logger.Info().
		Str("project", job.ProjectName).
		Str("model", job.Model).
		Int("angles", job.AngleCount()).
		Msg("archviz: job is valid")
	if *validateOnly {
		return
	}

	if cfg.GeminiAPIKey == "" {
		logger.Fatal().Msg("archviz: GEMINI_API_KEY is required to render")
	}

	outputRoot := *outDir
	if outputRoot == "" {
		outputRoot = cfg.OutputDir
	}
	store, err := storage.NewFileStore(outputRoot)
	if err != nil {
		logger.Fatal().Err(err).Msg("archviz: failed to prepare output directory")
	}

	client := genai.NewClient(genai.Options{
		BaseURL:        cfg.GeminiBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	orch, err := render.New(render.Options{
		Client: client,
		Store:  store,
		Logger: &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("archviz: failed to configure orchestrator")
	}

	// Ctrl-C stops dispatching further angles; the in-flight one is
	// interrupted and reported as cancelled.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := orch.Run(ctx, job, cfg.GeminiAPIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("archviz: run aborted")
	}

	for _, result := range report.Results {
		evt := logger.Info()
		if result.State != domain.AngleSucceeded {
			evt = logger.Warn()
		}
		evt.
			Str("selector", result.Selector.Label()).
			Str("angle", result.Angle.Name).
			Str("state", string(result.State)).
			Str("path", result.OutputPath).
			Str("reason", result.Reason).
			Msg("archviz: angle")
	}
	logger.Info().
		Str("output_dir", report.OutputDir).
		Int("succeeded", report.Succeeded()).
		Int("failed", report.Failed()).
		Int("cancelled", report.Cancelled()).
		Msg("archviz: done")

	if report.Failed() > 0 {
		os.Exit(1)
	}
}
