package feedback

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var ErrAlreadySubmitted = errors.New("feedback already submitted")

// ============================
// 🔷 GORM Feedback Model
//
// One submission per (user, event). Virtual events flagged
// requires_feedback_for_attendance gate check-in on a row existing here.
type Feedback struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	EventID   uint           `gorm:"not null;uniqueIndex:idx_fb_event_user" json:"event_id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_fb_event_user" json:"user_id"`
	Rating    int            `gorm:"not null" json:"rating"` // 1-5
	Comments  string         `gorm:"type:text" json:"comments"`
	Answers   datatypes.JSON `json:"answers,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback_submissions"
}

type SubmitRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comments string `json:"comments"`
}
