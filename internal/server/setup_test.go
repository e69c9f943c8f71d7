package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"intabyu/internal/audio"
	"intabyu/internal/config"
	"intabyu/internal/logger"
	"intabyu/internal/storage"
	"intabyu/internal/testutil"
)

const testAdminKey = "test-admin-key"

// testApp holds the full application stack for end-to-end tests.
type testApp struct {
	DB     *gorm.DB
	Store  *storage.AudioStore
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		AdminAPIKey:    testAdminKey,
		DBDriver:       config.DriverSQLite,
		AudioURLPrefix: "/audio-uploads",
		MaxUploadBytes: config.DefaultMaxUploadBytes,
		DurationSource: config.DurationSourceClient,
		DefaultUserID:  "6",
	}
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a temp-dir audio store.
func setupApp(t *testing.T, mutate ...func(*config.Config)) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	// One connection serialises writers on the shared in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	store := testutil.SetupAudioStore(t)
	deps := Deps{Config: cfg, DB: db, Store: store}
	return &testApp{DB: db, Store: store, Router: NewRouter(deps, NewServices(deps))}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONArray parses the response body into a slice.
func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func (app *testApp) createCategory(t *testing.T, name, userID string) string {
	t.Helper()
	rec := app.request("POST", "/api/categories", fmt.Sprintf(`{"name":%q,"userId":%q}`, name, userID), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(string)
}

func (app *testApp) createQuestion(t *testing.T, categoryID, text string) string {
	t.Helper()
	rec := app.request("POST", "/api/questions", fmt.Sprintf(`{"categoryId":%q,"text":%q}`, categoryID, text), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create question failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["id"].(string)
}

func (app *testApp) uploadRecording(t *testing.T, questionID string, data []byte, duration float64) map[string]interface{} {
	t.Helper()
	body := fmt.Sprintf(`{"questionId":%q,"audioData":%q,"duration":%v}`,
		questionID, audio.EncodeDataURL(data, "audio/webm;codecs=opus"), duration)
	rec := app.request("POST", "/api/recordings", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}
