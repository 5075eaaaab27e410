package reports

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

// AttendanceReport godoc
// @Summary      Export an event's attendance report
// @Tags         reports
// @Produce      application/octet-stream
// @Param        id path int true "Event ID"
// @Param        format query string false "csv | excel | pdf" default(excel)
// @Success      200 {file} binary
// @Router       /api/reports/events/{id}/attendance [get]
// @Security     BearerAuth
func (h *Handler) AttendanceReport(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}
	format := c.DefaultQuery("format", FormatExcel)

	data, filename, contentType, err := h.svc.AttendanceReport(c.Request.Context(), uint(eventID), format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// LeaderboardReport godoc
// @Summary      Export the XP leaderboard
// @Tags         reports
// @Produce      application/octet-stream
// @Param        format query string false "csv | excel | pdf" default(excel)
// @Param        limit query int false "Row limit" default(100)
// @Success      200 {file} binary
// @Router       /api/reports/leaderboard [get]
// @Security     BearerAuth
func (h *Handler) LeaderboardReport(c *gin.Context) {
	format := c.DefaultQuery("format", FormatExcel)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	data, filename, contentType, err := h.svc.LeaderboardReport(c.Request.Context(), format, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
