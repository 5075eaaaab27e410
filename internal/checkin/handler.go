package checkin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ===========================
// 🎯 Check-in HTTP Handlers

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Redeem godoc
// @Summary      Redeem a scanned ticket
// @Description  Validates a presented credential token and marks attendance once
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Param        request body RedeemRequest true "Scanned token"
// @Success      200 {object} RedeemResult
// @Failure      400 {object} RedeemResult
// @Failure      409 {object} RedeemResult
// @Router       /api/checkin/redeem [post]
// @Security     BearerAuth
func (h *Handler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, RedeemResult{Status: StatusError, Message: "token is required"})
		return
	}
	res := h.svc.Redeem(c.Request.Context(), req.Token, c.ClientIP())
	c.JSON(statusCode(res.Status), res)
}

// RedeemImage godoc
// @Summary      Redeem a ticket from an uploaded image
// @Description  Decodes a QR code out of an uploaded photo and redeems the embedded token
// @Tags         checkin
// @Accept       multipart/form-data
// @Produce      json
// @Param        image formData file true "Photo containing the ticket QR code"
// @Success      200 {object} RedeemResult
// @Failure      400 {object} RedeemResult
// @Router       /api/checkin/redeem-image [post]
// @Security     BearerAuth
func (h *Handler) RedeemImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, RedeemResult{Status: StatusError, Message: "image file is required"})
		return
	}
	defer file.Close()

	res := h.svc.RedeemImage(c.Request.Context(), file, c.ClientIP())
	c.JSON(statusCode(res.Status), res)
}

func statusCode(s Status) int {
	switch s {
	case StatusSuccess:
		return http.StatusOK
	case StatusAlreadyCheckedIn:
		return http.StatusConflict
	case StatusFeedbackRequired:
		return http.StatusPreconditionFailed
	default:
		return http.StatusBadRequest
	}
}
