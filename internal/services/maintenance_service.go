package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"intabyu/internal/logger"
	"intabyu/internal/models"
	"intabyu/internal/storage"
)

// maintenanceService performs destructive housekeeping for test harnesses.
type maintenanceService struct {
	db    *gorm.DB
	store *storage.AudioStore
}

// NewMaintenanceService creates a new MaintenanceServicer.
func NewMaintenanceService(db *gorm.DB, store *storage.AudioStore) MaintenanceServicer {
	return &maintenanceService{db: db, store: store}
}

// Wipe deletes every recording, question and category, then empties the
// audio store. Audit history is kept.
func (s *maintenanceService) Wipe(ctx context.Context) (*WipeResult, error) {
	result := &WipeResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})

		res := all.Delete(&models.Recording{})
		if res.Error != nil {
			return fmt.Errorf("delete recordings: %w", res.Error)
		}
		result.Recordings = res.RowsAffected

		res = all.Delete(&models.Question{})
		if res.Error != nil {
			return fmt.Errorf("delete questions: %w", res.Error)
		}
		result.Questions = res.RowsAffected

		res = all.Delete(&models.Category{})
		if res.Error != nil {
			return fmt.Errorf("delete categories: %w", res.Error)
		}
		result.Categories = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("wipe: %w", err)
	}

	if err := s.store.Wipe(); err != nil {
		return nil, fmt.Errorf("wipe: %w", err)
	}

	logger.Named("maintenance").Infow("data wiped",
		"recordings", result.Recordings,
		"questions", result.Questions,
		"categories", result.Categories,
	)
	return result, nil
}
