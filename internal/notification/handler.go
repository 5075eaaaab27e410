package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// ListMine godoc
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Param        unread query bool false "Only unread notifications"
// @Success      200 {array} Notification
// @Router       /api/notifications [get]
// @Security     BearerAuth
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.GetUint("user_id")
	unreadOnly := c.Query("unread") == "true"

	out, err := h.svc.ListByUser(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path int true "Notification ID"
// @Success      200 {object} map[string]string
// @Router       /api/notifications/{id}/read [patch]
// @Security     BearerAuth
func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), userID, uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
