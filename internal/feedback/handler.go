package feedback

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// Submit godoc
// @Summary Submit feedback for an event
// @Tags feedback
// @Security BearerAuth
// @Router /events/{id}/feedback [post]
func (h *Handler) Submit(c *gin.Context) {
	userID := c.GetUint("user_id")
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb, err := h.Service.Submit(c.Request.Context(), userID, uint(eventID), req, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			c.JSON(http.StatusConflict, gin.H{"error": "feedback already submitted"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit feedback"})
		return
	}

	c.JSON(http.StatusCreated, fb)
}

// ListByEvent godoc
// @Summary List feedback for an event (organizer only)
// @Tags feedback
// @Security BearerAuth
// @Router /events/{id}/feedback [get]
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	submissions, err := h.Service.ListByEvent(c.Request.Context(), uint(eventID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch feedback"})
		return
	}
	c.JSON(http.StatusOK, submissions)
}
