package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"intabyu/internal/models"
	"intabyu/internal/services"
	"intabyu/internal/validator"
)

const (
	testCategoryID  = "018f3a6e-0000-7000-8000-000000000001"
	testQuestionID  = "018f3a6e-0000-7000-8000-000000000002"
	testRecordingID = "018f3a6e-0000-7000-8000-000000000003"
)

// --- mock services ---

type mockCategoryService struct {
	createCategoryFn func(name, userID string) (*models.Category, error)
	listCategoriesFn func(userID string) ([]models.Category, error)
	getCategoryFn    func(categoryID string) (*models.Category, error)
	updateCategoryFn func(categoryID, name string) (*models.Category, error)
	deleteCategoryFn func(categoryID string) (bool, error)
}

func (m *mockCategoryService) CreateCategory(name, userID string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(name, userID)
	}
	return &models.Category{Name: name, UserID: userID, Questions: []models.Question{}}, nil
}

func (m *mockCategoryService) ListCategories(userID string) ([]models.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategory(categoryID string) (*models.Category, error) {
	if m.getCategoryFn != nil {
		return m.getCategoryFn(categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(categoryID, name string) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(categoryID, name)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, Name: name}, nil
}

func (m *mockCategoryService) DeleteCategory(categoryID string) (bool, error) {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(categoryID)
	}
	return true, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

type mockQuestionService struct {
	createQuestionFn func(categoryID, text string) (*models.Question, error)
	listQuestionsFn  func(categoryID string) ([]models.Question, error)
	updateQuestionFn func(questionID, text string) (*models.Question, error)
	deleteQuestionFn func(questionID string) (bool, error)
}

func (m *mockQuestionService) CreateQuestion(categoryID, text string) (*models.Question, error) {
	if m.createQuestionFn != nil {
		return m.createQuestionFn(categoryID, text)
	}
	return &models.Question{CategoryID: categoryID, Text: text}, nil
}

func (m *mockQuestionService) ListQuestions(categoryID string) ([]models.Question, error) {
	if m.listQuestionsFn != nil {
		return m.listQuestionsFn(categoryID)
	}
	return []models.Question{}, nil
}

func (m *mockQuestionService) GetQuestion(questionID string) (*models.Question, error) {
	return &models.Question{Base: models.Base{ID: questionID}}, nil
}

func (m *mockQuestionService) UpdateQuestion(questionID, text string) (*models.Question, error) {
	if m.updateQuestionFn != nil {
		return m.updateQuestionFn(questionID, text)
	}
	return &models.Question{Base: models.Base{ID: questionID}, Text: text}, nil
}

func (m *mockQuestionService) DeleteQuestion(questionID string) (bool, error) {
	if m.deleteQuestionFn != nil {
		return m.deleteQuestionFn(questionID)
	}
	return true, nil
}

var _ services.QuestionServicer = (*mockQuestionService)(nil)

type mockRecordingService struct {
	createRecordingFn   func(ctx context.Context, in services.CreateRecordingInput) (*models.Recording, error)
	listRecordingsFn    func(questionID string) ([]models.Recording, error)
	getRecordingFn      func(recordingID string) (*models.Recording, error)
	deleteRecordingFn   func(recordingID string) (bool, error)
	backfillDurationsFn func(ctx context.Context) (*services.BackfillResult, error)
}

func (m *mockRecordingService) CreateRecording(ctx context.Context, in services.CreateRecordingInput) (*models.Recording, error) {
	if m.createRecordingFn != nil {
		return m.createRecordingFn(ctx, in)
	}
	return &models.Recording{QuestionID: in.QuestionID, AudioURL: "/audio-uploads/x.webm", Duration: in.Duration}, nil
}

func (m *mockRecordingService) ListRecordings(questionID string) ([]models.Recording, error) {
	if m.listRecordingsFn != nil {
		return m.listRecordingsFn(questionID)
	}
	return []models.Recording{}, nil
}

func (m *mockRecordingService) GetRecording(recordingID string) (*models.Recording, error) {
	if m.getRecordingFn != nil {
		return m.getRecordingFn(recordingID)
	}
	return &models.Recording{Base: models.Base{ID: recordingID}}, nil
}

func (m *mockRecordingService) DeleteRecording(recordingID string) (bool, error) {
	if m.deleteRecordingFn != nil {
		return m.deleteRecordingFn(recordingID)
	}
	return true, nil
}

func (m *mockRecordingService) BackfillDurations(ctx context.Context) (*services.BackfillResult, error) {
	if m.backfillDurationsFn != nil {
		return m.backfillDurationsFn(ctx)
	}
	return &services.BackfillResult{}, nil
}

var _ services.RecordingServicer = (*mockRecordingService)(nil)

type mockMaintenanceService struct {
	wipeFn func(ctx context.Context) (*services.WipeResult, error)
}

func (m *mockMaintenanceService) Wipe(ctx context.Context) (*services.WipeResult, error) {
	if m.wipeFn != nil {
		return m.wipeFn(ctx)
	}
	return &services.WipeResult{}, nil
}

type auditEntry struct {
	action, resourceType, resourceID string
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{action, resourceType, resourceID})
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var result []interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}
