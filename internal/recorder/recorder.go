// Package recorder turns a live input stream into one encoded audio object
// per session. A session is armed by Initialize, buffers between Start and
// Stop, and releases the device exactly once when it ends.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"intabyu/internal/logger"
)

// DefaultMaxBytes stops a session once 50 MiB have been buffered.
const DefaultMaxBytes int64 = 50 * 1024 * 1024

// DefaultMimeType is requested when Options.MimeType is empty.
const DefaultMimeType = "audio/webm"

const readChunk = 32 << 10

// Device is an audio input. Open acquires the hardware and returns a stream
// of encoded audio; closing the stream releases it.
type Device interface {
	Supports(mimeType string) bool
	Open(ctx context.Context, mimeType string) (io.ReadCloser, error)
}

// Capture is the result of one session.
type Capture struct {
	Data     []byte
	MimeType string
	// Duration is wall-clock time between Start and the end of buffering.
	Duration time.Duration
	// StoppedEarly is set when the session hit Options.MaxBytes.
	StoppedEarly bool
}

// Seconds returns the duration as the float the upload API expects.
func (c *Capture) Seconds() float64 { return c.Duration.Seconds() }

// Options configures a Recorder.
type Options struct {
	MimeType string
	// MaxBytes bounds the buffered data; zero means DefaultMaxBytes.
	MaxBytes int64
	// Now is the clock used for durations; nil means time.Now.
	Now    func() time.Time
	Logger *zap.SugaredLogger
}

// State is the session phase.
type State int

const (
	StateIdle State = iota
	StateArmed
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateRecording:
		return "recording"
	default:
		return "idle"
	}
}

// Recorder captures one session at a time. It is safe for concurrent use.
type Recorder struct {
	device Device
	opts   Options
	log    *zap.SugaredLogger

	mu    sync.Mutex
	state State
	sess  *session
}

// session is one armed stream and its buffer.
type session struct {
	stream  io.ReadCloser
	release sync.Once

	mu           sync.Mutex
	buf          []byte
	startedAt    time.Time
	endedAt      time.Time
	stoppedEarly bool
	readErr      error
	stopping     bool

	done chan struct{} // closed when the reader exits
}

// New creates a Recorder over device.
func New(device Device, opts Options) *Recorder {
	if opts.MimeType == "" {
		opts.MimeType = DefaultMimeType
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Recorder{
		device: device,
		opts:   opts,
		log:    logger.OrNop(opts.Logger).Named("recorder"),
	}
}

// State returns the current phase.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Initialize requests the device and arms a session. An unsupported codec
// fails before the device is touched. Initializing an armed recorder is a
// no-op.
func (r *Recorder) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateArmed:
		return nil
	case StateRecording:
		return ErrAlreadyRecording
	}

	if !r.device.Supports(r.opts.MimeType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedCodec, r.opts.MimeType)
	}
	stream, err := r.device.Open(ctx, r.opts.MimeType)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrDeviceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	r.sess = &session{stream: stream, done: make(chan struct{})}
	r.state = StateArmed
	r.log.Debugw("session armed", "mime_type", r.opts.MimeType)
	return nil
}

// Start begins buffering the armed stream.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateIdle:
		return ErrNotInitialized
	case StateRecording:
		return ErrAlreadyRecording
	}

	s := r.sess
	s.startedAt = r.opts.Now()
	r.state = StateRecording
	go r.read(s)
	return nil
}

// Done is closed when the current session stops buffering on its own, either
// at the size limit or because the stream ended. Callers still call Stop to
// collect the capture. Done returns nil when no session is recording.
func (r *Recorder) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return nil
	}
	return r.sess.done
}

// Stop ends the session, releases the device and returns everything
// buffered. Stopping a recorder that is not recording returns nil, nil.
// If ctx ends before the reader drains, the device is still released.
func (r *Recorder) Stop(ctx context.Context) (*Capture, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return nil, nil
	}
	s := r.sess
	r.sess = nil
	r.state = StateIdle
	r.mu.Unlock()

	s.mu.Lock()
	if s.endedAt.IsZero() {
		s.endedAt = r.opts.Now()
	}
	s.stopping = true
	s.mu.Unlock()

	s.close(r.log)

	select {
	case <-s.done:
	case <-ctx.Done():
		return nil, fmt.Errorf("recorder: waiting for stream to drain: %w", ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, fmt.Errorf("recorder: reading stream: %w", s.readErr)
	}

	c := &Capture{
		Data:         s.buf,
		MimeType:     r.opts.MimeType,
		Duration:     s.endedAt.Sub(s.startedAt),
		StoppedEarly: s.stoppedEarly,
	}
	r.log.Debugw("session finalized",
		"size", humanize.IBytes(uint64(len(c.Data))),
		"duration", c.Duration,
		"stopped_early", c.StoppedEarly,
	)
	return c, nil
}

// Close releases an armed or recording session without producing a capture.
func (r *Recorder) Close() error {
	r.mu.Lock()
	s := r.sess
	r.sess = nil
	r.state = StateIdle
	r.mu.Unlock()

	if s != nil {
		s.mu.Lock()
		s.stopping = true
		s.mu.Unlock()
		s.close(r.log)
	}
	return nil
}

// read copies the stream into the buffer until EOF, a read error, the size
// limit, or Stop closing the stream.
func (r *Recorder) read(s *session) {
	defer close(s.done)

	chunk := make([]byte, readChunk)
	for {
		n, err := s.stream.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			room := r.opts.MaxBytes - int64(len(s.buf))
			if int64(n) > room {
				s.buf = append(s.buf, chunk[:room]...)
				s.stoppedEarly = true
				s.endedAt = r.opts.Now()
				s.mu.Unlock()
				r.log.Warnw("size limit reached, stopping session",
					"limit", humanize.IBytes(uint64(r.opts.MaxBytes)))
				s.close(r.log)
				return
			}
			s.buf = append(s.buf, chunk[:n]...)
			s.mu.Unlock()
		}
		if err != nil {
			s.mu.Lock()
			if s.endedAt.IsZero() {
				s.endedAt = r.opts.Now()
			}
			// Errors caused by Stop closing the stream are expected.
			if !errors.Is(err, io.EOF) && !s.stopping {
				s.readErr = err
			}
			s.mu.Unlock()
			return
		}
	}
}

// close releases the stream once.
func (s *session) close(log *zap.SugaredLogger) {
	s.release.Do(func() {
		if err := s.stream.Close(); err != nil {
			log.Warnw("releasing input stream", "error", err)
		}
	})
}
