package audio

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultExtension is used when neither the bytes nor the declared media
// type identify the container. Browsers record WebM/Opus by default.
const DefaultExtension = ".webm"

// contentTypes maps stored file extensions to the Content-Type served.
var contentTypes = map[string]string{
	".webm": "audio/webm",
	".weba": "audio/webm",
	".mp4":  "audio/mp4",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".aac":  "audio/aac",
	".flac": "audio/flac",
}

// declaredExtensions maps declared media types to extensions.
var declaredExtensions = map[string]string{
	"audio/webm":  ".webm",
	"video/webm":  ".webm",
	"audio/mp4":   ".mp4",
	"video/mp4":   ".mp4",
	"audio/x-m4a": ".m4a",
	"audio/ogg":   ".ogg",
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/wave":  ".wav",
	"audio/mpeg":  ".mp3",
	"audio/aac":   ".aac",
	"audio/flac":  ".flac",
}

// Extension picks the file extension for an uploaded payload. The sniffed
// container wins when it is a known audio format; otherwise the declared
// media type is used, then DefaultExtension.
func Extension(data []byte, declared string) string {
	if ext := mimetype.Detect(data).Extension(); ext != "" {
		if _, ok := contentTypes[ext]; ok {
			return ext
		}
	}
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		if ext, ok := declaredExtensions[strings.ToLower(mediaType)]; ok {
			return ext
		}
	}
	return DefaultExtension
}

// ContentType returns the audio Content-Type to serve for a stored file.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
