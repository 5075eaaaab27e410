package registration

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

// Register godoc
// @Summary Register the caller for an event
// @Tags registrations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "event id"
// @Param request body RegisterRequest true "answers"
// @Success 201 {object} RegisterResult
// @Router /events/{id}/register [post]
func (h *Handler) Register(c *gin.Context) {
	userID := c.GetUint("user_id")
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.Register(c.Request.Context(), userID, uint(eventID), req.Answers, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrEventFull):
			c.JSON(http.StatusConflict, gin.H{"error": "event is full"})
		case errors.Is(err, ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "already registered for this event"})
		case errors.Is(err, ErrEventNotOpen):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "event is not open for registration"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ConfirmPayment godoc
// @Summary Confirm a gateway payment and receive the credential
// @Tags registrations
// @Security BearerAuth
// @Router /registrations/confirm-payment [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticketResp, err := h.Service.ConfirmPayment(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment verification failed"})
		case errors.Is(err, ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending registration for this order"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm payment"})
		}
		return
	}

	c.JSON(http.StatusOK, ticketResp)
}

// GetTicket godoc
// @Summary Re-render the caller's ticket for an event
// @Tags registrations
// @Security BearerAuth
// @Router /events/{id}/ticket [get]
func (h *Handler) GetTicket(c *gin.Context) {
	userID := c.GetUint("user_id")
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ticketResp, err := h.Service.GetTicket(c.Request.Context(), userID, uint(eventID))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": "no registration found"})
		case errors.Is(err, ErrPaymentPending):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment confirmation pending"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render ticket"})
		}
		return
	}

	c.JSON(http.StatusOK, ticketResp)
}

// GetTicketPDF godoc
// @Summary Download the printable ticket
// @Tags registrations
// @Security BearerAuth
// @Produce application/pdf
// @Router /events/{id}/ticket.pdf [get]
func (h *Handler) GetTicketPDF(c *gin.Context) {
	userID := c.GetUint("user_id")
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	pdf, err := h.Service.GetTicketPDF(c.Request.Context(), userID, uint(eventID))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotRegistered):
			c.JSON(http.StatusNotFound, gin.H{"error": "no registration found"})
		case errors.Is(err, ErrPaymentPending):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment confirmation pending"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render ticket"})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ticket.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Roster godoc
// @Summary Attendee roster for an event (organizer only)
// @Tags registrations
// @Security BearerAuth
// @Router /events/{id}/roster [get]
func (h *Handler) Roster(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	roster, err := h.Service.Roster(c.Request.Context(), uint(eventID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch roster"})
		return
	}
	c.JSON(http.StatusOK, roster)
}

// MyRegistrations lists the caller's registrations.
func (h *Handler) MyRegistrations(c *gin.Context) {
	userID := c.GetUint("user_id")
	regs, err := h.Service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch registrations"})
		return
	}
	c.JSON(http.StatusOK, regs)
}
