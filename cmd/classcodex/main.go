package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ientropic/ClassCodex/internal/adapter/repository"
	"github.com/ientropic/ClassCodex/internal/infrastructure/external/generation"
	"github.com/ientropic/ClassCodex/internal/infrastructure/external/speech"
	"github.com/ientropic/ClassCodex/internal/usecase/pipeline"
	"github.com/ientropic/ClassCodex/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	for _, dir := range []string{cfg.App.IncomingDir, cfg.App.ProcessedDir, cfg.App.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("failed to create directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	// Initialize stores
	courseRepo := repository.NewCourseRepository(cfg.App.CoursesFile)
	recordingRepo := repository.NewRecordingRepository(cfg.App.DataDir)

	// Initialize external clients
	speechProc := speech.NewAssemblyAIProcessor(&cfg.Assembly, logger)
	genClient := generation.NewClient(&cfg.Generation)

	svc := pipeline.NewService(
		cfg,
		speechProc,
		genClient,
		generation.ParseHighlights,
		courseRepo,
		recordingRepo,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Run(ctx); err != nil {
		logger.Fatal("batch run failed", zap.Error(err))
	}
}
