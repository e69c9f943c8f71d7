package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"intabyu/internal/models"
	"intabyu/internal/storage"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestUserID is the owner used by fixtures that do not care about users.
const TestUserID = "6"

// CreateTestCategory creates a category owned by userID.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		UserID: userID,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestQuestion creates a question under categoryID.
func CreateTestQuestion(t *testing.T, db *gorm.DB, categoryID string) *models.Question {
	t.Helper()

	question := &models.Question{
		CategoryID: categoryID,
		Text:       fmt.Sprintf("Test question %d?", nextID()),
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("failed to create test question: %v", err)
	}
	return question
}

// CreateTestRecording writes data to store and inserts a row referencing it.
func CreateTestRecording(t *testing.T, db *gorm.DB, store *storage.AudioStore, questionID string, data []byte, duration *float64) *models.Recording {
	t.Helper()

	stored, err := store.Save(data, "webm")
	if err != nil {
		t.Fatalf("failed to store test audio: %v", err)
	}
	recording := &models.Recording{
		QuestionID: questionID,
		AudioURL:   stored.URL,
		Duration:   duration,
	}
	if err := db.Create(recording).Error; err != nil {
		t.Fatalf("failed to create test recording: %v", err)
	}
	return recording
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }
