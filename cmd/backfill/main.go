// Command backfill measures recordings stored without a duration using
// ffprobe and writes the result back.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"intabyu/internal/audio"
	"intabyu/internal/config"
	"intabyu/internal/database"
	"intabyu/internal/logger"
	"intabyu/internal/services"
	"intabyu/internal/storage"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Backfill error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return err
	}
	defer manager.Close()

	store, err := storage.NewAudioStore(cfg.AudioUploadDir, cfg.AudioURLPrefix)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := services.NewRecordingService(manager.DB(), store, services.RecordingOptions{
		MaxBytes:       cfg.MaxUploadBytes,
		DurationSource: cfg.DurationSource,
		Prober:         audio.NewFFProbe(cfg.FFProbePath),
	})
	result, err := svc.BackfillDurations(ctx)
	if err != nil {
		return err
	}

	logger.Get().Infof("Scanned %d, updated %d, missing file %d, failed %d",
		result.Scanned, result.Updated, result.Missing, result.Failed)
	return nil
}
