package handlers

import (
	"github.com/gin-gonic/gin"

	"intabyu/internal/audio"
	apperrors "intabyu/internal/errors"
	"intabyu/internal/storage"
)

// audioCacheControl marks stored audio as immutable; file names are never reused.
const audioCacheControl = "public, max-age=31536000, immutable"

// AudioHandler serves stored audio files.
type AudioHandler struct {
	store *storage.AudioStore
}

// NewAudioHandler creates a new AudioHandler.
func NewAudioHandler(store *storage.AudioStore) *AudioHandler {
	return &AudioHandler{store: store}
}

// Serve streams a stored file with an audio Content-Type and long-lived
// cache headers. Range requests are honoured.
// @Summary     Fetch audio
// @Tags        audio
// @Produce     octet-stream
// @Param       file path string true "Stored file name"
// @Success     200 {file} binary "Audio bytes"
// @Failure     404 {object} ErrorResponse "Audio file not found"
// @Router      /audio-uploads/{file} [get]
func (h *AudioHandler) Serve(c *gin.Context) {
	name := c.Param("file")
	path, err := h.store.Path(name)
	if err != nil || !h.store.Exists(name) {
		respondWithError(c, apperrors.ErrAudioFileNotFound)
		return
	}

	c.Header("Content-Type", audio.ContentType(name))
	c.Header("Cache-Control", audioCacheControl)
	c.Header("X-Content-Type-Options", "nosniff")
	c.File(path)
}

// Register mounts the handler under the store's URL prefix for GET and HEAD.
func (h *AudioHandler) Register(r gin.IRoutes) {
	route := h.store.URLPrefix() + "/:file"
	r.GET(route, h.Serve)
	r.HEAD(route, h.Serve)
}
