package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"intabyu/internal/audio"
	"intabyu/internal/config"
	apperrors "intabyu/internal/errors"
	"intabyu/internal/logger"
	"intabyu/internal/models"
	"intabyu/internal/storage"
)

// defaultBackfillConcurrency bounds parallel ffprobe processes.
const defaultBackfillConcurrency = 4

// RecordingOptions configures the recording service.
type RecordingOptions struct {
	// MaxBytes caps the decoded audio size; zero means config.DefaultMaxUploadBytes.
	MaxBytes int64
	// DurationSource selects config.DurationSourceClient or config.DurationSourceServer.
	DurationSource string
	// Prober measures stored files. Required for server-side durations and backfill.
	Prober audio.Prober
	// BackfillConcurrency bounds parallel probes; zero means 4.
	BackfillConcurrency int
}

// recordingService persists recordings across the database and the audio store.
type recordingService struct {
	db    *gorm.DB
	store *storage.AudioStore
	opts  RecordingOptions
}

// NewRecordingService creates a new RecordingServicer.
func NewRecordingService(db *gorm.DB, store *storage.AudioStore, opts RecordingOptions) RecordingServicer {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = config.DefaultMaxUploadBytes
	}
	if opts.DurationSource == "" {
		opts.DurationSource = config.DurationSourceClient
	}
	if opts.BackfillConcurrency <= 0 {
		opts.BackfillConcurrency = defaultBackfillConcurrency
	}
	return &recordingService{db: db, store: store, opts: opts}
}

// CreateRecording writes the audio to the store and inserts a row pointing
// at it. Input is validated before anything is written. If the insert fails
// after the write, the file is left in place and logged for reconciliation;
// the two stores are not rolled back together.
func (s *recordingService) CreateRecording(ctx context.Context, in CreateRecordingInput) (*models.Recording, error) {
	if in.QuestionID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "questionId is required")
	}
	if len(in.Audio) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "audio payload is required")
	}
	if int64(len(in.Audio)) > s.opts.MaxBytes {
		return nil, apperrors.WithMessage(apperrors.ErrPayloadTooLarge,
			fmt.Sprintf("recording is %s, the limit is %s",
				humanize.IBytes(uint64(len(in.Audio))), humanize.IBytes(uint64(s.opts.MaxBytes))))
	}
	if in.Duration != nil && *in.Duration < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "duration must not be negative")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", in.QuestionID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrQuestionNotFound
	}

	log := logger.Named("recordings")

	stored, err := s.store.Save(in.Audio, audio.Extension(in.Audio, in.MimeType))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	duration := in.Duration
	if s.opts.DurationSource == config.DurationSourceServer {
		duration = s.probe(ctx, stored.Path)
	}

	recording := &models.Recording{
		QuestionID: in.QuestionID,
		AudioURL:   stored.URL,
		Duration:   duration,
	}
	if err := s.db.WithContext(ctx).Create(recording).Error; err != nil {
		log.Errorw("recording insert failed, audio file left orphaned",
			"file", stored.FileName,
			"question_id", in.QuestionID,
			"error", err,
		)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	log.Infow("recording saved",
		"recording_id", recording.ID,
		"question_id", in.QuestionID,
		"file", stored.FileName,
		"bytes", stored.Size,
	)
	return recording, nil
}

// probe returns the measured duration, or nil when it cannot be measured.
// Rows left with a NULL duration are picked up by BackfillDurations.
func (s *recordingService) probe(ctx context.Context, path string) *float64 {
	if s.opts.Prober == nil {
		return nil
	}
	d, err := s.opts.Prober.Duration(ctx, path)
	if err != nil {
		logger.Named("recordings").Warnw("duration probe failed", "path", path, "error", err)
		return nil
	}
	return &d
}

// ListRecordings returns a question's recordings, newest first. Rows whose
// audio file no longer exists are dropped from the result.
func (s *recordingService) ListRecordings(questionID string) ([]models.Recording, error) {
	if questionID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "questionId is required")
	}

	var rows []models.Recording
	if err := s.db.Where("question_id = ?", questionID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	recordings := make([]models.Recording, 0, len(rows))
	for _, r := range rows {
		if !s.store.Exists(r.AudioURL) {
			logger.Named("recordings").Debugw("skipping recording with missing audio file",
				"recording_id", r.ID, "audio_url", r.AudioURL)
			continue
		}
		recordings = append(recordings, r)
	}
	return recordings, nil
}

// GetRecording retrieves one recording. A row whose file is missing is
// reported as ErrAudioFileNotFound.
func (s *recordingService) GetRecording(recordingID string) (*models.Recording, error) {
	var recording models.Recording
	if err := s.db.Where("id = ?", recordingID).First(&recording).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !s.store.Exists(recording.AudioURL) {
		return nil, apperrors.ErrAudioFileNotFound
	}
	return &recording, nil
}

// DeleteRecording removes the row and then its file. Deleting an unknown id
// reports false without an error.
func (s *recordingService) DeleteRecording(recordingID string) (bool, error) {
	var recording models.Recording
	if err := s.db.Where("id = ?", recordingID).First(&recording).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	res := s.db.Delete(&recording)
	if res.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}

	removeAudioFiles(s.store, []string{recording.AudioURL})
	return res.RowsAffected > 0, nil
}

// BackfillDurations measures every recording that has no duration yet.
// Recordings whose file is missing are counted and skipped; probe or update
// failures are logged per row and do not abort the pass.
func (s *recordingService) BackfillDurations(ctx context.Context) (*BackfillResult, error) {
	if s.opts.Prober == nil {
		return nil, fmt.Errorf("backfill: no duration prober configured")
	}
	log := logger.Named("backfill")

	var pending []models.Recording
	if err := s.db.WithContext(ctx).Where("duration IS NULL").Order("created_at ASC").Find(&pending).Error; err != nil {
		return nil, fmt.Errorf("backfill: list recordings: %w", err)
	}

	result := &BackfillResult{Scanned: len(pending)}
	var updated, missing, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BackfillConcurrency)

	for _, rec := range pending {
		path, err := s.store.PathForURL(rec.AudioURL)
		if err != nil || !s.store.Exists(rec.AudioURL) {
			log.Warnw("audio file not found", "recording_id", rec.ID, "audio_url", rec.AudioURL)
			missing.Add(1)
			continue
		}

		id := rec.ID
		g.Go(func() error {
			d, err := s.opts.Prober.Duration(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Errorw("duration probe failed", "recording_id", id, "error", err)
				failed.Add(1)
				return nil
			}
			if err := s.db.WithContext(gctx).Model(&models.Recording{}).
				Where("id = ?", id).Update("duration", d).Error; err != nil {
				log.Errorw("duration update failed", "recording_id", id, "error", err)
				failed.Add(1)
				return nil
			}
			log.Debugw("duration updated", "recording_id", id, "duration", d)
			updated.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("backfill: %w", err)
	}

	result.Updated = int(updated.Load())
	result.Missing = int(missing.Load())
	result.Failed = int(failed.Load())
	log.Infow("duration backfill finished",
		"scanned", result.Scanned,
		"updated", result.Updated,
		"missing", result.Missing,
		"failed", result.Failed,
	)
	return result, nil
}
