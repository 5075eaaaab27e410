package event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sam0786-xyz/technova-backend/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// CreateEvent godoc
// @Summary Create an event
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "event details"
// @Success 201 {object} Event
// @Router /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.Service.CreateEvent(&req, accessContext, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, e)
}

// UpdateEvent godoc
// @Summary Update an event (status only once attendance exists)
// @Tags events
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *Handler) UpdateEvent(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.Service.UpdateEvent(uint(id), &req, accessContext, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, ErrEventLocked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, e)
}

// GetLiveEvents godoc
// @Summary Events currently open for check-in
// @Tags events
// @Produce json
// @Success 200 {array} LiveEvent
// @Router /events/live [get]
func (h *Handler) GetLiveEvents(c *gin.Context) {
	events, err := h.Service.GetLiveEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch live events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get one event
// @Tags events
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	e, err := h.Service.GetEventView(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// ListEvents godoc
// @Summary List events with pagination and search
// @Tags events
// @Router /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	search := c.Query("search")

	events, err := h.Service.ListEvents(limit, offset, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, events)
}
