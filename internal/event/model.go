package event

import (
	"time"
)

// Event lifecycle states. Only status may change once an attendance exists.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	TypeTalkSeminar = "talk_seminar"
	TypeWorkshop    = "workshop"
	TypeHackathon   = "hackathon"
	TypeCompetition = "competition"
)

const (
	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyHard     = "hard"
	DifficultyElite    = "elite"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"type:varchar(255);not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	EventType       string     `gorm:"type:varchar(30);not null" json:"event_type"`
	DifficultyLevel string     `gorm:"type:varchar(20);not null;default:'easy'" json:"difficulty_level"`
	Capacity        int        `gorm:"not null" json:"capacity"`
	PriceMinor      int64      `gorm:"not null;default:0" json:"price_minor"` // paise, 0 = free
	StartTime       time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime         time.Time  `gorm:"not null" json:"end_time"`
	IsMultiDay      bool       `gorm:"default:false" json:"is_multi_day"`
	DayStartTime    *time.Time `json:"day_start_time,omitempty"` // per-day window for multi-day events
	DayEndTime      *time.Time `json:"day_end_time,omitempty"`
	IsVirtual       bool       `gorm:"default:false" json:"is_virtual"`
	RequiresFeedbackForAttendance bool `gorm:"default:false" json:"requires_feedback_for_attendance"`
	Status          string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	CreatedBy       uint       `gorm:"not null" json:"created_by"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	RegistrationCount int `gorm:"-" json:"registration_count"`
}

func (Event) TableName() string {
	return "events"
}

// IsFree reports whether registration requires no payment.
func (e *Event) IsFree() bool {
	return e.PriceMinor == 0
}

// ============================
// 🟡 Create / Update Requests
type CreateEventRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	EventType       string `json:"event_type" binding:"required"`
	DifficultyLevel string `json:"difficulty_level"`
	Capacity        int    `json:"capacity" binding:"min=0"`
	PriceMinor      int64  `json:"price_minor" binding:"min=0"`
	StartTime       string `json:"start_time" binding:"required"` // RFC3339
	EndTime         string `json:"end_time" binding:"required"`   // RFC3339
	IsMultiDay      bool   `json:"is_multi_day"`
	DayStartTime    string `json:"day_start_time,omitempty"` // "15:04"
	DayEndTime      string `json:"day_end_time,omitempty"`
	IsVirtual       bool   `json:"is_virtual"`
	RequiresFeedbackForAttendance bool `json:"requires_feedback_for_attendance"`
}

type UpdateEventRequest struct {
	CreateEventRequest
	Status string `json:"status,omitempty"`
}

// LiveEvent is the slim row the scanner's event selector needs.
type LiveEvent struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
}
