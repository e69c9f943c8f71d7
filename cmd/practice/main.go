// Command practice is a terminal front-end for the practice API: it lists
// categories, adds categories and questions, and records answers from the
// default ALSA input.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"intabyu/internal/client"
	"intabyu/internal/config"
	"intabyu/internal/logger"
	"intabyu/internal/practice"
	"intabyu/internal/recorder"
)

const usage = `usage: practice <command>
  categories                           list categories and questions
  add-category <name>                  create a category
  add-question <categoryId> <text>     add a question
  recordings <categoryId> <questionId> list recorded answers
  record <categoryId> <questionId>     record an answer, Enter stops`

var errUsage = errors.New(usage)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errUsage
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Get()
	api := client.New(cfg.APIBaseURL, nil, client.WithAPIKey(cfg.AdminAPIKey), client.WithLogger(log.Named("client")))
	rec := recorder.New(&recorder.ArecordDevice{Device: cfg.RecordDevice}, recorder.Options{
		MimeType: "audio/wav",
		MaxBytes: cfg.MaxRecordBytes,
		Logger:   log,
	})
	defer rec.Close()

	opts := practice.Options{UserID: cfg.UserID, Logger: log}
	if cfg.RedisAddr != "" {
		rdb := practice.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		opts.Mirror = practice.NewRedisMirror(rdb, cfg.UserID, 0)
	}
	ctrl := practice.NewController(api, rec, opts)

	args := os.Args[2:]
	switch os.Args[1] {
	case "categories":
		return listCategories(ctx, ctrl)
	case "add-category":
		if len(args) != 1 {
			return errUsage
		}
		cat, err := ctrl.AddCategory(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("created category %s (%s)\n", cat.Name, cat.ID)
		return nil
	case "add-question":
		if len(args) != 2 {
			return errUsage
		}
		if err := loadAndSelect(ctx, ctrl, args[0], ""); err != nil {
			return err
		}
		q, err := ctrl.AddQuestion(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("created question %s\n", q.ID)
		return nil
	case "recordings":
		if len(args) != 2 {
			return errUsage
		}
		if err := loadAndSelect(ctx, ctrl, args[0], args[1]); err != nil {
			return err
		}
		printRecordings(ctrl.Snapshot().Questions[args[1]].Recordings)
		return nil
	case "record":
		if len(args) != 2 {
			return errUsage
		}
		if err := loadAndSelect(ctx, ctrl, args[0], args[1]); err != nil {
			return err
		}
		return record(ctx, ctrl, rec, args[1])
	default:
		return errUsage
	}
}

func listCategories(ctx context.Context, ctrl *practice.Controller) error {
	if err := ctrl.Load(ctx); err != nil && !ctrl.Snapshot().FromMirror {
		return err
	}
	s := ctrl.Snapshot()
	if s.FromMirror {
		fmt.Printf("API unreachable (%v), showing offline copy\n", s.LoadErr)
	}
	if len(s.Categories) == 0 {
		fmt.Println("no categories")
	}
	for _, c := range s.Categories {
		fmt.Printf("%s  %s\n", c.ID, c.Name)
		for _, q := range c.Questions {
			fmt.Printf("    %s  %s\n", q.ID, q.Text)
		}
	}
	return nil
}

func loadAndSelect(ctx context.Context, ctrl *practice.Controller, categoryID, questionID string) error {
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	if err := ctrl.SelectCategory(categoryID); err != nil {
		return err
	}
	if questionID == "" {
		return nil
	}
	return ctrl.SelectQuestion(ctx, questionID)
}

// record runs one capture. Enter, an interrupt, or the size limit stops it.
func record(ctx context.Context, ctrl *practice.Controller, rec *recorder.Recorder, questionID string) error {
	if err := ctrl.StartRecording(ctx, questionID); err != nil {
		return err
	}
	fmt.Println("recording, press Enter to stop")

	enter := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(enter)
	}()
	select {
	case <-enter:
	case <-rec.Done():
		fmt.Println("size limit reached")
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	saved, err := ctrl.StopRecording(stopCtx, questionID)
	if err != nil {
		return fmt.Errorf("recording not saved: %w", err)
	}
	if saved == nil {
		fmt.Println("nothing captured")
		return nil
	}
	printRecordings([]client.Recording{*saved})
	return nil
}

func printRecordings(recs []client.Recording) {
	if len(recs) == 0 {
		fmt.Println("no recordings")
	}
	for _, r := range recs {
		d := "unknown length"
		if r.Duration != nil {
			d = (time.Duration(*r.Duration * float64(time.Second))).Round(100 * time.Millisecond).String()
		}
		fmt.Printf("%s  %s  %s  %s\n", r.ID, humanize.Time(r.CreatedAt), d, strings.TrimSpace(r.AudioURL))
	}
}
