// Package uuid generates time-ordered identifiers used as primary keys and
// as stored audio filenames.
package uuid

import (
	"strings"

	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. The leading 48 bits are the Unix time in
// milliseconds, so values sort chronologically; the remaining 74 bits are
// random, so concurrent callers never collide in practice.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return googleuuid.New().String()
	}
	return id.String()
}

// NewFilename returns a UUIDv7-based filename with the given extension,
// e.g. "0192b5c4-...-7f3a.webm". A leading dot on ext is optional.
func NewFilename(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return New()
	}
	return New() + "." + ext
}

// Parse validates and normalizes a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
