package recorder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	defaultOpenTimeout = 2 * time.Second
	defaultStopGrace   = 2 * time.Second
)

var errNoAudio = errors.New("no audio received")

// ArecordDevice captures from an ALSA input with arecord, producing 16-bit
// stereo 44.1 kHz WAV.
type ArecordDevice struct {
	// Path is the arecord binary; empty means "arecord" on PATH.
	Path string
	// Device is the ALSA device name; empty means the default input.
	Device string
	// OpenTimeout bounds the wait for the first audio bytes; zero means 2s.
	OpenTimeout time.Duration
	// StopGrace is how long arecord may take to flush after an interrupt
	// before it is killed; zero means 2s.
	StopGrace time.Duration
}

// Supports reports whether mimeType is WAV.
func (d *ArecordDevice) Supports(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(base) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return true
	}
	return false
}

// Open starts arecord and waits until it produces audio, so a denied or
// missing input fails here rather than on the first read. The returned
// stream interrupts the process when closed and reads until arecord has
// flushed its last bytes.
func (d *ArecordDevice) Open(ctx context.Context, mimeType string) (io.ReadCloser, error) {
	if !d.Supports(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, mimeType)
	}
	bin := d.Path
	if bin == "" {
		bin = "arecord"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	args := []string{"-q", "-f", "cd", "-t", "wav"}
	if d.Device != "" {
		args = append(args, "-D", d.Device)
	}
	args = append(args, "-")

	// The process outlives Open, so it is not bound to ctx.
	cmd := exec.Command(path, args...)
	stderr := &lockedBuffer{}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	br := bufio.NewReader(stdout)
	peeked := make(chan error, 1)
	go func() {
		_, err := br.Peek(1)
		peeked <- err
	}()

	timeout := d.OpenTimeout
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var openErr error
	select {
	case openErr = <-peeked:
	case <-timer.C:
		_ = cmd.Process.Kill()
		<-peeked
		openErr = fmt.Errorf("%w within %s", errNoAudio, timeout)
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-peeked
		openErr = ctx.Err()
	}
	if openErr != nil {
		// Peek has returned, so no read is pending on stdout.
		_ = cmd.Wait()
		return nil, openFailure(openErr, stderr.String())
	}

	grace := d.StopGrace
	if grace <= 0 {
		grace = defaultStopGrace
	}
	return &processStream{
		cmd:    cmd,
		r:      br,
		grace:  grace,
		eof:    make(chan struct{}),
		exited: make(chan struct{}),
	}, nil
}

// openFailure maps an arecord start-up failure to the capture errors.
func openFailure(err error, stderr string) error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = err.Error()
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case strings.Contains(msg, "Permission denied"):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
	default:
		return fmt.Errorf("%w: %s", ErrDeviceUnavailable, msg)
	}
}

type processStream struct {
	cmd   *exec.Cmd
	r     io.Reader
	grace time.Duration

	eofOnce  sync.Once
	eof      chan struct{} // closed once the reader has seen the end of stdout
	stopOnce sync.Once
	exited   chan struct{} // closed after the process is reaped
}

func (p *processStream) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err != nil {
		p.eofOnce.Do(func() { close(p.eof) })
	}
	return n, err
}

// Close interrupts arecord so it writes its remaining audio and exits. The
// process is reaped once the reader reaches EOF, or killed after the grace
// period when nobody drains it.
func (p *processStream) Close() error {
	p.stopOnce.Do(func() {
		_ = p.cmd.Process.Signal(os.Interrupt)
		go p.reap()
	})
	return nil
}

func (p *processStream) reap() {
	defer close(p.exited)
	select {
	case <-p.eof:
	case <-time.After(p.grace):
		_ = p.cmd.Process.Kill()
		select {
		case <-p.eof:
		case <-time.After(p.grace):
		}
	}
	_ = p.cmd.Wait()
}

// lockedBuffer collects stderr written by the exec copy goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
