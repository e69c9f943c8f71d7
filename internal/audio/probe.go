package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Prober measures the duration of a stored audio file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFProbe shells out to ffprobe.
type FFProbe struct {
	// Path is the ffprobe binary; empty means "ffprobe" on $PATH.
	Path string
}

// NewFFProbe returns a prober using the given binary.
func NewFFProbe(path string) *FFProbe {
	return &FFProbe{Path: path}
}

// Duration implements Prober.
func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	bin := p.Path
	if bin == "" {
		bin = "ffprobe"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"-i", path,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return 0, fmt.Errorf("ffprobe not available: %w", err)
		}
		return 0, fmt.Errorf("ffprobe %s: %w (%s)", path, err, strings.TrimSpace(stderr.String()))
	}
	return ParseDuration(stdout.String())
}

// ParseDuration parses ffprobe's csv duration output. ffprobe prints "N/A"
// for WebM files written without a duration element.
func ParseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("duration unavailable")
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", d)
	}
	return d, nil
}
