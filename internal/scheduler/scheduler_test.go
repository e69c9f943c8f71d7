package scheduler

import (
	"context"
	"testing"
	"time"
)

func noop(context.Context) error { return nil }

func TestSchedule(t *testing.T) {
	s := New(time.UTC)

	if _, err := s.Schedule("backfill", "@every 1h", noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Schedule("nightly", "0 3 * * *", noop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", s.Len())
	}
}

func TestScheduleRejectsBadSpecs(t *testing.T) {
	s := New(nil)

	for _, spec := range []string{"", "not a spec", "61 * * * *"} {
		if _, err := s.Schedule("bad", spec, noop); err == nil {
			t.Errorf("expected error for spec %q", spec)
		}
	}
	if s.Len() != 0 {
		t.Errorf("expected no entries, got %d", s.Len())
	}
}

func TestStartStop(t *testing.T) {
	s := New(time.UTC)
	ran := make(chan struct{}, 1)
	if _, err := s.Schedule("tick", "@every 1s", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
