package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intabyu/internal/services"
)

// QuestionHandler handles question requests.
type QuestionHandler struct {
	questionService services.QuestionServicer
	auditService    services.AuditServicer
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService services.QuestionServicer, auditService services.AuditServicer) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, auditService: auditService}
}

// CreateQuestionRequest represents the request payload for creating a question.
type CreateQuestionRequest struct {
	CategoryID string `json:"categoryId" binding:"required,uuid"`
	Text       string `json:"text" binding:"required,notblank,max=2000"`
}

// UpdateQuestionRequest represents the request payload for editing a question.
type UpdateQuestionRequest struct {
	Text string `json:"text" binding:"required,notblank,max=2000"`
}

// CreateQuestion handles the creation of a new question.
// @Summary     Create a question
// @Tags        questions
// @Accept      json
// @Produce     json
// @Param       request body CreateQuestionRequest true "Question details"
// @Success     201 {object} models.Question "Question created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	question, err := h.questionService.CreateQuestion(req.CategoryID, req.Text)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ListQuestions returns the questions of a category in creation order.
// @Summary     List questions
// @Tags        questions
// @Produce     json
// @Param       categoryId query string true "Category ID"
// @Success     200 {array} models.Question "Questions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	questions, err := h.questionService.ListQuestions(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// UpdateQuestion replaces a question's text.
// @Summary     Edit a question
// @Tags        questions
// @Accept      json
// @Produce     json
// @Security    AdminKey
// @Param       id      path string                true "Question ID"
// @Param       request body UpdateQuestionRequest true "New text"
// @Success     200 {object} models.Question "Question updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Question not found"
// @Router      /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateQuestionRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	question, err := h.questionService.UpdateQuestion(id, req.Text)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_QUESTION", "question", id, c.ClientIP(),
		map[string]interface{}{"text": req.Text})

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes a question and its recordings.
// @Summary     Delete a question
// @Tags        questions
// @Produce     json
// @Security    AdminKey
// @Param       id path string true "Question ID"
// @Success     200 {object} DeleteResponse "Delete result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.questionService.DeleteQuestion(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if deleted {
		h.auditService.Log("DELETE_QUESTION", "question", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}
