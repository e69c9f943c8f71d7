// Command cleanup deletes every category, question and recording and empties
// the audio store. It exists for test harnesses that need a blank slate.
package main

import (
	"context"
	"fmt"
	"os"

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
		logger.Get().Fatalf("Cleanup error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 || os.Args[1] != "--yes" {
		return fmt.Errorf("usage: cleanup --yes (deletes ALL practice data)")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return err
	}
	defer manager.Close()

	if err := manager.RunMigrations(); err != nil {
		return err
	}

	store, err := storage.NewAudioStore(cfg.AudioUploadDir, cfg.AudioURLPrefix)
	if err != nil {
		return err
	}

	result, err := services.NewMaintenanceService(manager.DB(), store).Wipe(context.Background())
	if err != nil {
		return err
	}
	services.NewAuditService(manager.DB()).Log("WIPE", "all", "*", "cli", map[string]interface{}{
		"recordings": result.Recordings,
		"questions":  result.Questions,
		"categories": result.Categories,
	})

	logger.Get().Infof("Removed %d recording(s), %d question(s), %d categor(ies)",
		result.Recordings, result.Questions, result.Categories)
	return nil
}
