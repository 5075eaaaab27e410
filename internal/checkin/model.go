package checkin

// Redeem outcomes. Only StatusSuccess mutates anything.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusAlreadyCheckedIn Status = "already_checked_in"
	StatusFeedbackRequired Status = "feedback_required"
	StatusError            Status = "error"
)

// RedeemResult is what the scanning operator sees for one presented
// credential.
type RedeemResult struct {
	Status    Status `json:"status"`
	UserName  string `json:"userName,omitempty"`
	XPAwarded int    `json:"xpAwarded,omitempty"`
	Message   string `json:"message,omitempty"`
}

type RedeemRequest struct {
	Token string `json:"token" binding:"required"`
}
