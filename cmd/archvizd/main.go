package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/theMaxscriptGuy/archviz-ai/internal/genai"
	"github.com/theMaxscriptGuy/archviz-ai/internal/httpapi"
	"github.com/theMaxscriptGuy/archviz-ai/internal/infra"
	"github.com/theMaxscriptGuy/archviz-ai/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("archvizd: failed to prepare output directory")
	}

	client := genai.NewClient(genai.Options{
		BaseURL:        cfg.GeminiBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	app := httpapi.NewApp(cfg, logger, client, store)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("archvizd listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("archvizd: http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("archvizd: shutdown failed")
	}
	logger.Info().Msg("archvizd: stopped")
}
