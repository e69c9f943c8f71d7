// Package practice owns the state of a practice session: the category list,
// the current selection, and the record/upload cycle of each question. State
// changes only through the Controller's actions; views read Snapshot.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"intabyu/internal/client"
	"intabyu/internal/logger"
	"intabyu/internal/recorder"
)

// LoadState tracks the category list.
type LoadState string

const (
	LoadIdle    LoadState = "idle"
	LoadLoading LoadState = "loading"
	LoadLoaded  LoadState = "loaded"
	LoadError   LoadState = "error"
)

// Phase tracks one question's record/upload cycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRecording Phase = "recording"
	PhaseUploading Phase = "uploading"
)

var (
	// ErrInvalidTransition is returned for an action the current phase does not allow.
	ErrInvalidTransition = errors.New("practice: invalid transition")
	ErrUnknownCategory   = errors.New("practice: unknown category")
	ErrUnknownQuestion   = errors.New("practice: unknown question")
	ErrEmptyText         = errors.New("practice: text must not be empty")
)

// API is the subset of the transport client the controller uses.
type API interface {
	ListCategories(ctx context.Context, userID string) ([]client.Category, error)
	CreateCategory(ctx context.Context, name, userID string) (*client.Category, error)
	CreateQuestion(ctx context.Context, categoryID, text string) (*client.Question, error)
	ListRecordings(ctx context.Context, questionID string) ([]client.Recording, error)
	UploadRecording(ctx context.Context, questionID string, data []byte, mimeType string, duration *float64) (*client.Recording, error)
}

// Capturer is the capture session the controller drives.
type Capturer interface {
	Initialize(ctx context.Context) error
	Start() error
	Stop(ctx context.Context) (*recorder.Capture, error)
	Close() error
}

// QuestionState is one question's phase, its known recordings and the last
// error to show for it.
type QuestionState struct {
	Phase      Phase
	Recordings []client.Recording
	Err        error
}

// State is a point-in-time copy of the controller state.
type State struct {
	Load    LoadState
	LoadErr error
	// FromMirror is set when Categories came from the mirror after the API failed.
	FromMirror bool

	Categories         []client.Category
	SelectedCategoryID string
	SelectedQuestionID string
	Questions          map[string]QuestionState
}

// Options configures a Controller.
type Options struct {
	// UserID owns created categories; empty lets the server choose.
	UserID string
	// Mirror is optional.
	Mirror Mirror
	Logger *zap.SugaredLogger
}

// Controller is the practice session state machine. It is safe for
// concurrent use; network and capture calls run without holding its lock.
type Controller struct {
	api      API
	capturer Capturer
	mirror   Mirror
	userID   string
	log      *zap.SugaredLogger

	mu    sync.Mutex
	state State
	// active is the question holding the capturer, if any.
	active string
}

// NewController creates a controller in the idle state.
func NewController(api API, capturer Capturer, opts Options) *Controller {
	return &Controller{
		api:      api,
		capturer: capturer,
		mirror:   opts.Mirror,
		userID:   opts.UserID,
		log:      logger.OrNop(opts.Logger).Named("practice"),
		state: State{
			Load:      LoadIdle,
			Questions: map[string]QuestionState{},
		},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Categories = cloneCategories(c.state.Categories)
	s.Questions = make(map[string]QuestionState, len(c.state.Questions))
	for id, q := range c.state.Questions {
		q.Recordings = append([]client.Recording(nil), q.Recordings...)
		s.Questions[id] = q
	}
	return s
}

// Load fetches the category list. When the API fails and the mirror holds
// a list, that list is shown with FromMirror set; the API error is still
// returned and kept in LoadErr.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Load == LoadLoading {
		c.mu.Unlock()
		return fmt.Errorf("%w: categories already loading", ErrInvalidTransition)
	}
	c.state.Load = LoadLoading
	c.state.LoadErr = nil
	c.mu.Unlock()

	cats, err := c.api.ListCategories(ctx, c.userID)
	if err == nil {
		c.mu.Lock()
		c.state.Load = LoadLoaded
		c.state.FromMirror = false
		c.state.Categories = cats
		c.reconcileSelection()
		c.mu.Unlock()
		c.saveMirror(ctx, cats)
		return nil
	}

	c.log.Warnw("loading categories failed", "error", err)
	var mirrored []client.Category
	if c.mirror != nil {
		m, merr := c.mirror.LoadAll(ctx)
		if merr != nil {
			c.log.Warnw("reading mirror failed", "error", merr)
		}
		mirrored = m
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LoadErr = err
	if mirrored != nil {
		c.state.Load = LoadLoaded
		c.state.FromMirror = true
		c.state.Categories = mirrored
		c.reconcileSelection()
	} else {
		c.state.Load = LoadError
	}
	return err
}

// SelectCategory makes categoryID current and clears the question selection.
func (c *Controller) SelectCategory(categoryID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.findCategory(categoryID) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}
	c.state.SelectedCategoryID = categoryID
	c.state.SelectedQuestionID = ""
	return nil
}

// SelectQuestion makes a question of the selected category current and
// fetches its recordings. A failed fetch keeps the selection and records
// the error on the question.
func (c *Controller) SelectQuestion(ctx context.Context, questionID string) error {
	c.mu.Lock()
	ci := c.findCategory(c.state.SelectedCategoryID)
	if ci < 0 || !hasQuestion(c.state.Categories[ci], questionID) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	c.state.SelectedQuestionID = questionID
	c.mu.Unlock()

	recs, err := c.api.ListRecordings(ctx, questionID)

	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.question(questionID)
	if err != nil {
		q.Err = err
	} else {
		q.Recordings = recs
		q.Err = nil
	}
	c.state.Questions[questionID] = q
	return err
}

// AddCategory creates a category and puts it first in the list.
func (c *Controller) AddCategory(ctx context.Context, name string) (*client.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyText
	}
	cat, err := c.api.CreateCategory(ctx, name, c.userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.state.Categories = append([]client.Category{*cat}, c.state.Categories...)
	cats := cloneCategories(c.state.Categories)
	c.mu.Unlock()

	c.saveMirror(ctx, cats)
	return cat, nil
}

// AddQuestion creates a question and appends it to its category.
func (c *Controller) AddQuestion(ctx context.Context, categoryID, text string) (*client.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	c.mu.Lock()
	known := c.findCategory(categoryID) >= 0
	c.mu.Unlock()
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}

	q, err := c.api.CreateQuestion(ctx, categoryID, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if ci := c.findCategory(categoryID); ci >= 0 {
		c.state.Categories[ci].Questions = append(c.state.Categories[ci].Questions, *q)
	}
	cats := cloneCategories(c.state.Categories)
	c.mu.Unlock()

	c.saveMirror(ctx, cats)
	return q, nil
}

// StartRecording arms the capturer and starts recording an answer. It is
// only valid from idle and while no other question holds the capturer.
func (c *Controller) StartRecording(ctx context.Context, questionID string) error {
	c.mu.Lock()
	q := c.question(questionID)
	if q.Phase != PhaseIdle {
		c.mu.Unlock()
		return fmt.Errorf("%w: start recording while %s", ErrInvalidTransition, q.Phase)
	}
	if c.active != "" {
		c.mu.Unlock()
		return fmt.Errorf("%w: question %s is using the recorder", ErrInvalidTransition, c.active)
	}
	c.active = questionID
	q.Phase = PhaseRecording
	q.Err = nil
	c.state.Questions[questionID] = q
	c.mu.Unlock()

	err := c.capturer.Initialize(ctx)
	if err == nil {
		err = c.capturer.Start()
	}
	if err != nil {
		_ = c.capturer.Close()
		c.finish(questionID, err)
		return err
	}
	return nil
}

// StopRecording stops capture and uploads the answer. It is only valid from
// recording; the question is uploading from the moment capture stops. A failed upload returns the question to idle with the error
// recorded; the captured audio is discarded.
func (c *Controller) StopRecording(ctx context.Context, questionID string) (*client.Recording, error) {
	c.mu.Lock()
	q := c.question(questionID)
	if q.Phase != PhaseRecording {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: stop recording while %s", ErrInvalidTransition, q.Phase)
	}
	// Leaving recording here makes a concurrent stop an invalid transition.
	q.Phase = PhaseUploading
	c.state.Questions[questionID] = q
	c.mu.Unlock()

	capture, err := c.capturer.Stop(ctx)
	if err != nil {
		c.finish(questionID, err)
		return nil, err
	}
	if capture == nil || len(capture.Data) == 0 {
		c.finish(questionID, nil)
		return nil, nil
	}
	if capture.StoppedEarly {
		c.log.Warnw("recording hit the size limit", "question_id", questionID, "bytes", len(capture.Data))
	}

	seconds := capture.Seconds()
	rec, err := c.api.UploadRecording(ctx, questionID, capture.Data, capture.MimeType, &seconds)
	if err != nil {
		c.log.Errorw("upload failed, recording discarded", "question_id", questionID, "error", err)
		c.finish(questionID, err)
		return nil, err
	}

	c.mu.Lock()
	q = c.question(questionID)
	q.Recordings = append([]client.Recording{*rec}, q.Recordings...)
	c.state.Questions[questionID] = q
	c.mu.Unlock()
	c.finish(questionID, nil)
	return rec, nil
}

// finish returns a question to idle, releases the capturer and records err.
func (c *Controller) finish(questionID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.question(questionID)
	q.Phase = PhaseIdle
	q.Err = err
	c.state.Questions[questionID] = q
	if c.active == questionID {
		c.active = ""
	}
}

func (c *Controller) saveMirror(ctx context.Context, cats []client.Category) {
	if c.mirror == nil {
		return
	}
	if err := c.mirror.SaveAll(ctx, cats); err != nil {
		c.log.Warnw("updating mirror failed", "error", err)
	}
}

// question returns the state for id. Callers hold c.mu.
func (c *Controller) question(id string) QuestionState {
	q, ok := c.state.Questions[id]
	if !ok {
		q.Phase = PhaseIdle
	}
	return q
}

// findCategory returns the index of id or -1. Callers hold c.mu.
func (c *Controller) findCategory(id string) int {
	for i := range c.state.Categories {
		if c.state.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// reconcileSelection drops selections that no longer exist. Callers hold c.mu.
func (c *Controller) reconcileSelection() {
	ci := c.findCategory(c.state.SelectedCategoryID)
	if ci < 0 {
		c.state.SelectedCategoryID = ""
		c.state.SelectedQuestionID = ""
		return
	}
	if !hasQuestion(c.state.Categories[ci], c.state.SelectedQuestionID) {
		c.state.SelectedQuestionID = ""
	}
}

func hasQuestion(cat client.Category, id string) bool {
	for _, q := range cat.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
