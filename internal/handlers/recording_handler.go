package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intabyu/internal/audio"
	apperrors "intabyu/internal/errors"
	"intabyu/internal/services"
)

// RecordingHandler handles recording uploads and listings.
type RecordingHandler struct {
	recordingService services.RecordingServicer
	auditService     services.AuditServicer
}

// NewRecordingHandler creates a new RecordingHandler.
func NewRecordingHandler(recordingService services.RecordingServicer, auditService services.AuditServicer) *RecordingHandler {
	return &RecordingHandler{recordingService: recordingService, auditService: auditService}
}

// CreateRecordingRequest represents an upload. AudioData is a base64 data
// URL such as "data:audio/webm;codecs=opus;base64,GkXf...".
type CreateRecordingRequest struct {
	QuestionID string   `json:"questionId" binding:"required,uuid"`
	AudioData  string   `json:"audioData" binding:"required,audio_data_url"`
	Duration   *float64 `json:"duration" binding:"omitempty,gte=0"`
}

// CreateRecording stores an uploaded answer.
// @Summary     Upload a recording
// @Description Store audio for a question and return the persisted recording with its server-relative audio_url
// @Tags        recordings
// @Accept      json
// @Produce     json
// @Param       request body CreateRecordingRequest true "Recording upload"
// @Success     201 {object} models.Recording "Recording created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Question not found"
// @Failure     413 {object} ErrorResponse "Payload too large"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recordings [post]
func (h *RecordingHandler) CreateRecording(c *gin.Context) {
	var req CreateRecordingRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	data, mimeType, err := audio.DecodeDataURL(req.AudioData)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidAudio, err.Error()))
		return
	}

	recording, err := h.recordingService.CreateRecording(c.Request.Context(), services.CreateRecordingInput{
		QuestionID: req.QuestionID,
		Audio:      data,
		MimeType:   mimeType,
		Duration:   req.Duration,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recording)
}

// ListRecordings returns a question's recordings, newest first.
// @Summary     List recordings
// @Description Recordings whose audio file is missing are omitted
// @Tags        recordings
// @Produce     json
// @Param       questionId query string true "Question ID"
// @Success     200 {array} models.Recording "Recordings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /recordings [get]
func (h *RecordingHandler) ListRecordings(c *gin.Context) {
	questionID, err := queryID(c, "questionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordings, err := h.recordingService.ListRecordings(questionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recordings)
}

// GetRecording returns one recording.
// @Summary     Get a recording
// @Tags        recordings
// @Produce     json
// @Param       id path string true "Recording ID"
// @Success     200 {object} models.Recording "Recording"
// @Failure     404 {object} ErrorResponse "Recording or audio file not found"
// @Router      /recordings/{id} [get]
func (h *RecordingHandler) GetRecording(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	recording, err := h.recordingService.GetRecording(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recording)
}

// DeleteRecording removes a recording and its audio file.
// @Summary     Delete a recording
// @Tags        recordings
// @Produce     json
// @Security    AdminKey
// @Param       id path string true "Recording ID"
// @Success     200 {object} DeleteResponse "Delete result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /recordings/{id} [delete]
func (h *RecordingHandler) DeleteRecording(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.recordingService.DeleteRecording(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if deleted {
		h.auditService.Log("DELETE_RECORDING", "recording", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}
