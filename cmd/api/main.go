package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intabyu/internal/audio"
	"intabyu/internal/config"
	"intabyu/internal/database"
	"intabyu/internal/logger"
	"intabyu/internal/scheduler"
	"intabyu/internal/server"
	"intabyu/internal/storage"
)

// @title           Intabyu API
// @version         1.0
// @description     Interview practice: categories, questions and recorded answers.

// @host      localhost:3002
// @BasePath  /api

// @securityDefinitions.apikey AdminKey
// @in header
// @name X-API-Key
// @description Administrative key for test-harness mutation routes.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	store, err := storage.NewAudioStore(appConfig.AudioUploadDir, appConfig.AudioURLPrefix)
	if err != nil {
		return fmt.Errorf("failed to open audio store: %w", err)
	}

	deps := server.Deps{
		Config: appConfig,
		DB:     dbManager.DB(),
		Store:  store,
		Prober: audio.NewFFProbe(appConfig.FFProbePath),
	}
	svc := server.NewServices(deps)
	router := server.NewRouter(deps, svc)

	if appConfig.BackfillSchedule != "" {
		sched := scheduler.New(time.Local)
		if _, err := sched.Schedule("duration-backfill", appConfig.BackfillSchedule, func(ctx context.Context) error {
			_, err := svc.Recordings.BackfillDurations(ctx)
			return err
		}); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Intabyu server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Infow("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
