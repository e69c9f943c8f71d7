// Package storage keeps recorded audio as flat files under one root
// directory. Every object gets a fresh UUIDv7 filename, so concurrent writers
// never target the same path.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"intabyu/internal/uuid"
)

// ErrInvalidName is returned for names that are empty or try to escape the root.
var ErrInvalidName = errors.New("storage: invalid file name")

// StoredAudio describes an object written by Save.
type StoredAudio struct {
	FileName string
	URL      string
	Path     string
	Size     int64
}

// AudioStore is a flat-file store rooted at a single directory and exposed
// to clients under URLPrefix.
type AudioStore struct {
	root      string
	urlPrefix string
}

// NewAudioStore creates the root directory if needed. Call it once at
// process start, not per request.
func NewAudioStore(root, urlPrefix string) (*AudioStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage: root directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root %q: %w", abs, err)
	}
	prefix := "/" + strings.Trim(urlPrefix, "/")
	return &AudioStore{root: abs, urlPrefix: prefix}, nil
}

// Root returns the absolute root directory.
func (s *AudioStore) Root() string { return s.root }

// URLPrefix returns the path prefix under which stored files are served.
func (s *AudioStore) URLPrefix() string { return s.urlPrefix }

// Save writes data to a new uniquely named file with the given extension.
// The file is created with O_EXCL so an existing object is never overwritten.
func (s *AudioStore) Save(data []byte, ext string) (*StoredAudio, error) {
	name := uuid.NewFilename(ext)
	p := filepath.Join(s.root, name)

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return nil, fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return nil, fmt.Errorf("storage: close %s: %w", name, err)
	}

	return &StoredAudio{
		FileName: name,
		URL:      s.URLFor(name),
		Path:     p,
		Size:     int64(len(data)),
	}, nil
}

// URLFor returns the server-relative URL of a stored file.
func (s *AudioStore) URLFor(name string) string {
	return path.Join(s.urlPrefix, name)
}

// Path resolves a bare file name to its location on disk.
func (s *AudioStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.root, name), nil
}

// PathForURL resolves a stored URL (or bare name) to its location on disk.
func (s *AudioStore) PathForURL(url string) (string, error) {
	return s.Path(path.Base(url))
}

// Exists reports whether the object referenced by url is present on disk.
func (s *AudioStore) Exists(url string) bool {
	p, err := s.PathForURL(url)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes the object referenced by url. Removing a missing object is
// not an error.
func (s *AudioStore) Remove(url string) error {
	p, err := s.PathForURL(url)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", path.Base(url), err)
	}
	return nil
}

// Wipe deletes every stored object and recreates an empty root.
func (s *AudioStore) Wipe() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("storage: remove root: %w", err)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("storage: recreate root: %w", err)
	}
	return nil
}
