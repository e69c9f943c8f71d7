package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "intabyu/internal/errors"
	"intabyu/internal/services"
	"intabyu/internal/uuid"
)

// CategoryHandler handles category requests, including the nested
// category/question listing.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
	defaultUserID   string
}

// NewCategoryHandler creates a new CategoryHandler. defaultUserID is used
// when a request does not name a user.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer, defaultUserID string) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		auditService:    auditService,
		defaultUserID:   defaultUserID,
	}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name   string `json:"name" binding:"required,notblank,max=200"`
	UserID string `json:"userId" binding:"omitempty,max=64"`
}

// UpdateCategoryRequest represents the request payload for renaming a category.
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,notblank,max=200"`
}

// CreateCategory handles the creation of a new category.
// @Summary     Create a category
// @Description Create a category for a user; the response carries an empty questions list
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = h.defaultUserID
	}

	category, err := h.categoryService.CreateCategory(req.Name, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// ListCategories returns a user's categories with their questions nested.
// @Summary     List categories
// @Description List a user's categories, newest first, each with its questions in creation order
// @Tags        categories
// @Produce     json
// @Param       userId query string false "Owner; defaults to the configured user"
// @Success     200 {array} models.Category "Categories with nested questions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = h.defaultUserID
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// UpdateCategory renames a category.
// @Summary     Rename a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    AdminKey
// @Param       id      path string                true "Category ID"
// @Param       request body UpdateCategoryRequest true "New name"
// @Success     200 {object} models.Category "Category updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_CATEGORY", "category", id, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category with its questions and recordings.
// @Summary     Delete a category
// @Tags        categories
// @Produce     json
// @Security    AdminKey
// @Param       id path string true "Category ID"
// @Success     200 {object} DeleteResponse "Delete result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.categoryService.DeleteCategory(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if deleted {
		h.auditService.Log("DELETE_CATEGORY", "category", id, c.ClientIP(), nil)
	}

	c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}

// queryID returns the named UUID query parameter or a VALIDATION_ERROR.
func queryID(c *gin.Context, name string) (string, error) {
	v := c.Query(name)
	if v == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, name+" is required")
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+name)
	}
	return id, nil
}
