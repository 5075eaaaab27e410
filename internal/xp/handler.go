package xp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// MyTotal godoc
// @Summary      Get my XP total
// @Tags         xp
// @Produce      json
// @Success      200 {object} UserTotal
// @Router       /api/xp/me [get]
// @Security     BearerAuth
func (h *Handler) MyTotal(c *gin.Context) {
	userID := c.GetUint("user_id")

	total, err := h.repo.GetUserTotal(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch XP total"})
		return
	}
	c.JSON(http.StatusOK, total)
}

// MyHistory godoc
// @Summary      Get my recent XP awards
// @Tags         xp
// @Produce      json
// @Param        limit query int false "Row limit" default(20)
// @Success      200 {array} LedgerEntry
// @Router       /api/xp/me/history [get]
// @Security     BearerAuth
func (h *Handler) MyHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.repo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch XP history"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
