package registration

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Payment states. A pending registration holds the gateway order id in
// qr_token_id until the payment is confirmed and a real credential minted.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFree    = "free"
)

var (
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrNotRegistered     = errors.New("no registration found")
	ErrPaymentPending    = errors.New("payment confirmation pending")
	ErrEventNotOpen      = errors.New("event is not open for registration")
	ErrPaymentInvalid    = errors.New("payment verification failed")
)

// ============================
// 🔷 GORM Registration Model
//
// The unique index on (event_id, user_id) is load-bearing: it backstops
// the capacity transaction and makes duplicate registration a database
// impossibility, not just a service check.
type Registration struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	EventID       uint           `gorm:"not null;uniqueIndex:idx_reg_event_user" json:"event_id"`
	UserID        uint           `gorm:"not null;uniqueIndex:idx_reg_event_user" json:"user_id"`
	PaymentStatus string         `gorm:"type:varchar(20);not null" json:"payment_status"`
	QRTokenID     string         `gorm:"type:varchar(100);index" json:"qr_token_id"`
	Attended      bool           `gorm:"not null;default:false" json:"attended"`
	CheckedInAt   *time.Time     `json:"checked_in_at,omitempty"`
	Answers       datatypes.JSON `json:"answers,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"-"`
}

func (Registration) TableName() string {
	return "registrations"
}

// RosterEntry is one row of the per-event attendee roster, the manual
// search/checklist fallback when scanning is impractical.
type RosterEntry struct {
	RegistrationID uint       `json:"registration_id"`
	UserID         uint       `json:"user_id"`
	FullName       string     `json:"name"`
	Email          string     `json:"email"`
	ImageURL       string     `json:"image"`
	Attended       bool       `json:"attended"`
	CheckedInAt    *time.Time `json:"checked_in_at,omitempty"`
	RegisteredAt   time.Time  `json:"registered_at"`
}

// ============================
// 🟡 Requests / Responses
type RegisterRequest struct {
	Answers []Answer `json:"answers"`
}

type VerifyPaymentRequest struct {
	OrderID     string `json:"razorpay_order_id" binding:"required"`
	PaymentID   string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySig string `json:"razorpay_signature" binding:"required"`
}

// RegisterResult is what the registrant sees right after registering.
type RegisterResult struct {
	Status      string          `json:"status"` // registered | payment_required
	Ticket      *TicketResponse `json:"ticket,omitempty"`
	OrderID     string          `json:"order_id,omitempty"`
	AmountMinor int64           `json:"amount_minor,omitempty"`
	RazorpayKey string          `json:"razorpay_key,omitempty"`
}

// TicketResponse carries the rendered credential back to its holder.
type TicketResponse struct {
	TokenID    string `json:"token_id"`
	Token      string `json:"token"`
	QRDataURL  string `json:"qr_data_url"`
	HolderName string `json:"holder_name"`
	HolderUSN  string `json:"holder_usn"`
	HolderYear string `json:"holder_year"`
	Course     string `json:"holder_course"`
	EventTitle string `json:"event_title"`
}
