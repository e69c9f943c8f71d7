package services

import (
	"context"

	"intabyu/internal/models"
)

// CategoryServicer defines the contract for categories and the aggregate
// category/question read path.
type CategoryServicer interface {
	CreateCategory(name, userID string) (*models.Category, error)
	ListCategories(userID string) ([]models.Category, error)
	GetCategory(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID, name string) (*models.Category, error)
	DeleteCategory(categoryID string) (bool, error)
}

// QuestionServicer defines the contract for question-related business logic.
type QuestionServicer interface {
	CreateQuestion(categoryID, text string) (*models.Question, error)
	ListQuestions(categoryID string) ([]models.Question, error)
	GetQuestion(questionID string) (*models.Question, error)
	UpdateQuestion(questionID, text string) (*models.Question, error)
	DeleteQuestion(questionID string) (bool, error)
}

// CreateRecordingInput carries a decoded upload.
type CreateRecordingInput struct {
	QuestionID string
	Audio      []byte
	// MimeType is the media type declared by the client, e.g. "audio/webm".
	MimeType string
	// Duration is the client-measured length in seconds, if any.
	Duration *float64
}

// BackfillResult summarises one duration backfill pass.
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Missing int `json:"missing"`
	Failed  int `json:"failed"`
}

// RecordingServicer defines the contract for recording persistence.
type RecordingServicer interface {
	CreateRecording(ctx context.Context, in CreateRecordingInput) (*models.Recording, error)
	ListRecordings(questionID string) ([]models.Recording, error)
	GetRecording(recordingID string) (*models.Recording, error)
	DeleteRecording(recordingID string) (bool, error)
	BackfillDurations(ctx context.Context) (*BackfillResult, error)
}

// WipeResult reports how many rows a wipe removed.
type WipeResult struct {
	Recordings int64 `json:"recordings"`
	Questions  int64 `json:"questions"`
	Categories int64 `json:"categories"`
}

// MaintenanceServicer defines administrative operations outside normal use.
type MaintenanceServicer interface {
	Wipe(ctx context.Context) (*WipeResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
