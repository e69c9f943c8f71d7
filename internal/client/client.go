// Package client is the HTTP transport for the practice front-end: it lists
// and creates categories and questions, uploads captured audio and fetches
// recordings with playable absolute URLs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"intabyu/internal/audio"
	"intabyu/internal/logger"
)

// DefaultAudioPrefix is the server path under which stored audio is served.
const DefaultAudioPrefix = "/audio-uploads"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Category is a category with its questions in creation order.
type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	UserID    string     `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	Questions []Question `json:"questions"`
}

// Question is a practice prompt.
type Question struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recording is a stored answer. AudioURL is absolute once returned by Client.
type Recording struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	AudioURL   string    `json:"audio_url"`
	Duration   *float64  `json:"duration"`
	CreatedAt  time.Time `json:"created_at"`
}

// Client talks to the practice API.
type Client struct {
	baseURL     string
	apiKey      string
	audioPrefix string
	httpClient  *http.Client
	log         *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the admin key sent as X-API-Key. DeleteRecording needs it.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithAudioPrefix overrides the path used to resolve bare audio file names.
func WithAudioPrefix(prefix string) Option {
	return func(c *Client) { c.audioPrefix = "/" + strings.Trim(prefix, "/") }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the API at baseURL, e.g. "http://localhost:3002".
// A nil httpClient uses a client with a 60 second timeout.
func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		audioPrefix: DefaultAudioPrefix,
		httpClient:  httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.OrNop(c.log)
	return c
}

// BaseURL returns the API origin without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// AudioURL turns a stored audio reference into an absolute URL. Absolute
// URLs are returned unchanged; server-relative paths and bare file names
// get the base address prepended exactly once.
func (c *Client) AudioURL(raw string) string {
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "/"):
		return c.baseURL + raw
	case strings.HasPrefix(raw, strings.TrimPrefix(c.audioPrefix, "/")+"/"):
		return c.baseURL + "/" + raw
	default:
		return c.baseURL + c.audioPrefix + "/" + raw
	}
}

// ListCategories fetches a user's categories with nested questions.
func (c *Client) ListCategories(ctx context.Context, userID string) ([]Category, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("userId", userID)
	}
	var out []Category
	if err := c.do(ctx, "list categories", http.MethodGet, "/api/categories", q, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Questions == nil {
			out[i].Questions = []Question{}
		}
	}
	return out, nil
}

// CreateCategory creates a category. An empty userID lets the server use
// its configured default.
func (c *Client) CreateCategory(ctx context.Context, name, userID string) (*Category, error) {
	body := map[string]string{"name": name}
	if userID != "" {
		body["userId"] = userID
	}
	var out Category
	if err := c.do(ctx, "create category", http.MethodPost, "/api/categories", nil, body, &out); err != nil {
		return nil, err
	}
	if out.Questions == nil {
		out.Questions = []Question{}
	}
	return &out, nil
}

// ListQuestions fetches a category's questions.
func (c *Client) ListQuestions(ctx context.Context, categoryID string) ([]Question, error) {
	var out []Question
	q := url.Values{"categoryId": {categoryID}}
	if err := c.do(ctx, "list questions", http.MethodGet, "/api/questions", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateQuestion adds a question to a category.
func (c *Client) CreateQuestion(ctx context.Context, categoryID, text string) (*Question, error) {
	var out Question
	body := map[string]string{"categoryId": categoryID, "text": text}
	if err := c.do(ctx, "create question", http.MethodPost, "/api/questions", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRecordings fetches a question's recordings, newest first, with
// absolute audio URLs.
func (c *Client) ListRecordings(ctx context.Context, questionID string) ([]Recording, error) {
	var out []Recording
	q := url.Values{"questionId": {questionID}}
	if err := c.do(ctx, "list recordings", http.MethodGet, "/api/recordings", q, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].AudioURL = c.AudioURL(out[i].AudioURL)
	}
	return out, nil
}

type uploadRequest struct {
	QuestionID string   `json:"questionId"`
	AudioData  string   `json:"audioData"`
	Duration   *float64 `json:"duration,omitempty"`
}

// UploadRecording sends captured audio as a base64 data URL and returns the
// persisted recording with an absolute audio URL. Empty input is rejected
// locally with a ValidationError.
func (c *Client) UploadRecording(ctx context.Context, questionID string, data []byte, mimeType string, duration *float64) (*Recording, error) {
	if questionID == "" {
		return nil, &ValidationError{Code: "VALIDATION_ERROR", Message: "questionId is required"}
	}
	if len(data) == 0 {
		return nil, &ValidationError{Code: "VALIDATION_ERROR", Message: "audio payload is required"}
	}

	body := uploadRequest{
		QuestionID: questionID,
		AudioData:  audio.EncodeDataURL(data, mimeType),
		Duration:   duration,
	}
	var out Recording
	if err := c.do(ctx, "upload recording", http.MethodPost, "/api/recordings", nil, body, &out); err != nil {
		return nil, err
	}
	out.AudioURL = c.AudioURL(out.AudioURL)
	return &out, nil
}

// DeleteRecording removes a recording. Deleting a recording that does not
// exist succeeds.
func (c *Client) DeleteRecording(ctx context.Context, recordingID string) error {
	err := c.do(ctx, "delete recording", http.MethodDelete, "/api/recordings/"+url.PathEscape(recordingID), nil, nil, nil)
	if IsNotFound(err) {
		return nil
	}
	return err
}

// do performs one JSON round trip. in is encoded as the request body when
// non-nil; out receives the decoded 2xx body when non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debugw("api request",
		"op", op,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
