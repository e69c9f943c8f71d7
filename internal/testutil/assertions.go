package testutil

import (
	"bytes"
	"errors"
	"os"
	"testing"

	apperrors "intabyu/internal/errors"
	"intabyu/internal/storage"
)

// AssertAppError checks that err is an *AppError carrying expectedCode.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAudioStored checks that url resolves to a stored file holding want.
func AssertAudioStored(t *testing.T, store *storage.AudioStore, url string, want []byte) {
	t.Helper()

	path, err := store.PathForURL(url)
	if err != nil {
		t.Fatalf("resolve %s: %v", url, err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored audio %s: %v", url, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("stored audio %s differs: got %d bytes, want %d", url, len(got), len(want))
	}
}

// AssertAudioFiles checks that the store holds exactly want files.
func AssertAudioFiles(t *testing.T, store *storage.AudioStore, want int) {
	t.Helper()

	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("read audio store: %v", err)
	}
	if len(entries) != want {
		t.Errorf("expected %d stored audio files, found %d", want, len(entries))
	}
}
