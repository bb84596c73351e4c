package handlers

import (
	"net/http"

	"rental-portal/internal/auth"
	"rental-portal/internal/feedback"
	"rental-portal/internal/models"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler exposes the tenant complaint workflow over HTTP.
type FeedbackHandler struct {
	feedbacks *feedback.Service
}

func NewFeedbackHandler(feedbacks *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{feedbacks: feedbacks}
}

type feedbackPayload struct {
	RoomID      string `json:"room_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type feedbackUpdatePayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Create handles POST /api/feedbacks.
func (h *FeedbackHandler) Create(c *gin.Context) {
	var payload feedbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := auth.FromContext(c)
	created, err := h.feedbacks.Create(actor, feedback.CreateInput{
		RoomID:      payload.RoomID,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/feedbacks.
func (h *FeedbackHandler) List(c *gin.Context) {
	actor := auth.FromContext(c)
	items, err := h.feedbacks.List(actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET /api/feedbacks/:id.
func (h *FeedbackHandler) Get(c *gin.Context) {
	actor := auth.FromContext(c)
	f, err := h.feedbacks.Get(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// Update handles PUT /api/feedbacks/:id.
func (h *FeedbackHandler) Update(c *gin.Context) {
	var payload feedbackUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := feedback.UpdateInput{
		Title:       payload.Title,
		Description: payload.Description,
	}
	if payload.Status != nil {
		status := models.FeedbackStatus(*payload.Status)
		in.Status = &status
	}

	actor := auth.FromContext(c)
	updated, err := h.feedbacks.Update(actor, c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/feedbacks/:id.
func (h *FeedbackHandler) Delete(c *gin.Context) {
	actor := auth.FromContext(c)
	if err := h.feedbacks.Remove(actor, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
}
