package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "intabyu/internal/errors"
	"intabyu/internal/models"
	"intabyu/internal/storage"
)

// questionService handles question-related business logic.
type questionService struct {
	db    *gorm.DB
	store *storage.AudioStore
}

// NewQuestionService creates a new QuestionServicer.
func NewQuestionService(db *gorm.DB, store *storage.AudioStore) QuestionServicer {
	return &questionService{db: db, store: store}
}

// CreateQuestion adds a question under an existing category.
func (s *questionService) CreateQuestion(categoryID, text string) (*models.Question, error) {
	text = strings.TrimSpace(text)
	if categoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "categoryId is required")
	}
	if text == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "question text is required")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	question := &models.Question{
		CategoryID: categoryID,
		Text:       text,
	}
	if err := s.db.Create(question).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return question, nil
}

// ListQuestions returns a category's questions in creation order. An
// unknown category yields an empty list.
func (s *questionService) ListQuestions(categoryID string) ([]models.Question, error) {
	if categoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "categoryId is required")
	}

	questions := []models.Question{}
	if err := s.db.Where("category_id = ?", categoryID).
		Order("created_at ASC").Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return questions, nil
}

// GetQuestion retrieves a question by ID.
func (s *questionService) GetQuestion(questionID string) (*models.Question, error) {
	var question models.Question
	if err := s.db.Where("id = ?", questionID).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &question, nil
}

// UpdateQuestion replaces a question's text.
func (s *questionService) UpdateQuestion(questionID, text string) (*models.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "question text is required")
	}

	question, err := s.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(question).Update("text", text).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return question, nil
}

// DeleteQuestion removes a question and its recordings. Deleting an unknown
// id reports false without an error.
func (s *questionService) DeleteQuestion(questionID string) (bool, error) {
	var audioURLs []string
	deleted := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recording{}).
			Where("question_id = ?", questionID).
			Pluck("audio_url", &audioURLs).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Recording{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", questionID).Delete(&models.Question{})
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
