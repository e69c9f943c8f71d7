package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "intabyu/internal/errors"
	"intabyu/internal/logger"
	"intabyu/internal/models"
	"intabyu/internal/storage"
)

// categoryService handles categories and the nested category/question read.
type categoryService struct {
	db    *gorm.DB
	store *storage.AudioStore
}

// NewCategoryService creates a new CategoryServicer. store is used to remove
// audio files of recordings cascaded by DeleteCategory.
func NewCategoryService(db *gorm.DB, store *storage.AudioStore) CategoryServicer {
	return &categoryService{db: db, store: store}
}

// CreateCategory creates a new category with an empty question list.
func (s *categoryService) CreateCategory(name, userID string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if userID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "userId is required")
	}

	category := &models.Category{
		Name:   name,
		UserID: userID,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category.Questions = []models.Question{}
	return category, nil
}

// ListCategories returns the user's categories, newest first, each with its
// questions in creation order. It issues at most two queries: one for the
// categories and one for all of their questions, grouped in memory.
func (s *categoryService) ListCategories(userID string) ([]models.Category, error) {
	if userID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "userId is required")
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(categories) == 0 {
		return []models.Category{}, nil
	}

	ids := make([]string, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}

	var questions []models.Question
	if err := s.db.Where("category_id IN ?", ids).
		Order("created_at ASC").Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byCategory := make(map[string][]models.Question, len(categories))
	for _, q := range questions {
		byCategory[q.CategoryID] = append(byCategory[q.CategoryID], q)
	}
	for i := range categories {
		if qs, ok := byCategory[categories[i].ID]; ok {
			categories[i].Questions = qs
		} else {
			categories[i].Questions = []models.Question{}
		}
	}

	return categories, nil
}

// GetCategory retrieves a category by ID without its questions.
func (s *categoryService) GetCategory(categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory renames a category.
func (s *categoryService) UpdateCategory(categoryID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes a category with its questions and recordings.
// Deleting an unknown id reports false without an error.
func (s *categoryService) DeleteCategory(categoryID string) (bool, error) {
	var audioURLs []string
	deleted := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&models.Question{}).Select("id").Where("category_id = ?", categoryID)
		if err := tx.Model(&models.Recording{}).
			Where("question_id IN (?)", questionIDs).
			Pluck("audio_url", &audioURLs).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.Recording{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", categoryID).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	removeAudioFiles(s.store, audioURLs)
	return deleted, nil
}

// removeAudioFiles deletes stored objects after their rows are gone. A
// failure leaves an orphaned file, which is logged and otherwise harmless.
func removeAudioFiles(store *storage.AudioStore, urls []string) {
	if store == nil {
		return
	}
	for _, url := range urls {
		if err := store.Remove(url); err != nil {
			logger.Get().Warnw("failed to remove audio file", "audio_url", url, "error", err)
		}
	}
}
