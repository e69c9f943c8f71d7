// Package audio handles the audio payload itself: the base64 data-URL wire
// encoding, container sniffing, and duration probing.
package audio

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrMalformedDataURL is returned when a payload is not a base64 data URL.
var ErrMalformedDataURL = errors.New("audio: malformed data URL")

// EncodeDataURL renders data as "data:<mime>;base64,<payload>".
func EncodeDataURL(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL parses a base64 data URL such as
// "data:audio/webm;codecs=opus;base64,GkXfo..." and returns the decoded bytes
// and the media type without parameters ("audio/webm").
func DecodeDataURL(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, "", ErrMalformedDataURL
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, "", ErrMalformedDataURL
	}

	params := strings.Split(header, ";")
	if params[len(params)-1] != "base64" {
		return nil, "", ErrMalformedDataURL
	}
	mediaType := strings.TrimSpace(params[0])

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// MediaRecorder output is sometimes encoded without padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", errors.Join(ErrMalformedDataURL, err)
		}
	}
	if len(data) == 0 {
		return nil, "", ErrMalformedDataURL
	}
	return data, mediaType, nil
}

// LooksLikeDataURL is a cheap shape check used by request validation.
func LooksLikeDataURL(s string) bool {
	if !strings.HasPrefix(s, "data:") {
		return false
	}
	header, payload, ok := strings.Cut(s, ",")
	return ok && payload != "" && strings.HasSuffix(header, ";base64")
}

// EncodedLen returns the size of the base64 data URL for n payload bytes
// with the given media type.
func EncodedLen(n int64, mimeType string) int64 {
	return int64(len("data:"+mimeType+";base64,")) + int64(base64.StdEncoding.EncodedLen(int(n)))
}
