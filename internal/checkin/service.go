package checkin

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/sam0786-xyz/technova-backend/internal/auditlog"
	"github.com/sam0786-xyz/technova-backend/internal/registration"
	"github.com/sam0786-xyz/technova-backend/internal/ticket"
	"github.com/sam0786-xyz/technova-backend/internal/xp"
	"github.com/sam0786-xyz/technova-backend/utils"
)

// ===========================
// 🎯 Check-in Validator Service

// TokenVerifier is the slice of ticket.Issuer the validator needs.
type TokenVerifier interface {
	Verify(raw string) (*ticket.Claims, error)
}

// FeedbackChecker answers whether a member already submitted feedback
// for an event. Satisfied by feedback.Service.
type FeedbackChecker interface {
	HasSubmitted(ctx context.Context, userID, eventID uint) (bool, error)
}

type Service interface {
	// Redeem validates a presented credential and, on success, marks
	// attendance and awards XP exactly once.
	Redeem(ctx context.Context, rawToken string, ip string) *RedeemResult
	// RedeemImage decodes a QR code out of an uploaded image, then
	// redeems the embedded token.
	RedeemImage(ctx context.Context, img io.Reader, ip string) *RedeemResult
}

type service struct {
	store    Store
	verifier TokenVerifier
	feedback FeedbackChecker
	auditSvc auditlog.Service
}

func NewService(store Store, verifier TokenVerifier, feedback FeedbackChecker, auditSvc auditlog.Service) Service {
	return &service{store: store, verifier: verifier, feedback: feedback, auditSvc: auditSvc}
}

// redeemTimeout bounds how long one scan can hold the operator's screen.
const redeemTimeout = 3 * time.Second

func (s *service) Redeem(ctx context.Context, rawToken string, ip string) *RedeemResult {
	ctx, cancel := context.WithTimeout(ctx, redeemTimeout)
	defer cancel()

	claims, err := s.verifier.Verify(rawToken)
	if err != nil {
		s.audit(ctx, nil, nil, "checkin_rejected", map[string]interface{}{"reason": "invalid_token"}, ip, "FAILURE")
		return errResult("Invalid or tampered ticket")
	}

	target, err := s.store.FindForRedeem(ctx, claims.EventID, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.audit(ctx, &claims.UserID, &claims.EventID, "checkin_rejected", map[string]interface{}{"reason": "no_registration"}, ip, "FAILURE")
			return errResult("No registration found for this ticket")
		}
		log.Printf("❌ Check-in lookup failed: %v", err)
		return errResult("Check-in temporarily unavailable")
	}

	// A token only redeems while its nonce is still the one on record;
	// re-issued credentials invalidate every earlier copy.
	if target.QRTokenID != claims.Nonce {
		s.audit(ctx, &claims.UserID, &claims.EventID, "checkin_rejected", map[string]interface{}{"reason": "stale_credential"}, ip, "FAILURE")
		return errResult("Invalid or tampered ticket")
	}

	if target.PaymentStatus == registration.PaymentPending {
		s.audit(ctx, &claims.UserID, &claims.EventID, "checkin_rejected", map[string]interface{}{"reason": "payment_pending"}, ip, "FAILURE")
		return errResult("Payment not completed for this registration")
	}

	// The feedback gate outranks the duplicate report: a flagged event
	// demands a submission on record before any redeem outcome, even a
	// re-scan of a consumed credential.
	if target.Event.RequiresFeedbackForAttendance {
		done, err := s.feedback.HasSubmitted(ctx, claims.UserID, claims.EventID)
		if err != nil {
			log.Printf("❌ Feedback lookup failed: %v", err)
			return errResult("Check-in temporarily unavailable")
		}
		if !done {
			s.audit(ctx, &claims.UserID, &claims.EventID, "checkin_rejected", map[string]interface{}{"reason": "feedback_required"}, ip, "FAILURE")
			return &RedeemResult{
				Status:   StatusFeedbackRequired,
				UserName: target.UserName,
				Message:  "Feedback submission required before check-in",
			}
		}
	}

	if target.Attended {
		s.audit(ctx, &claims.UserID, &claims.EventID, "checkin_duplicate", nil, ip, "FAILURE")
		return &RedeemResult{Status: StatusAlreadyCheckedIn, UserName: target.UserName}
	}

	amount := xp.Score(
		target.Event.EventType,
		target.Event.DifficultyLevel,
		target.Event.StartTime,
		target.Event.EndTime,
		target.Event.IsMultiDay,
	)

	now := time.Now()
	awarded, err := s.store.MarkAttended(ctx, claims.EventID, claims.UserID, amount, now)
	if err != nil {
		log.Printf("❌ Check-in write failed: %v", err)
		return errResult("Check-in temporarily unavailable")
	}
	if !awarded {
		// Lost the race with a concurrent scan of the same credential.
		s.audit(ctx, &claims.UserID, &claims.EventID, "checkin_duplicate", nil, ip, "FAILURE")
		return &RedeemResult{Status: StatusAlreadyCheckedIn, UserName: target.UserName}
	}

	utils.PublishAttendanceEvent(ctx, utils.AttendanceEvent{
		UserID:     claims.UserID,
		EventID:    claims.EventID,
		EventTitle: target.Event.Title,
		XPAwarded:  amount,
		CheckedIn:  now,
	})
	utils.RevalidateEventViews(ctx, claims.EventID)

	s.audit(ctx, &claims.UserID, &claims.EventID, "checkin_success", map[string]interface{}{"xp_awarded": amount}, ip, "SUCCESS")

	return &RedeemResult{Status: StatusSuccess, UserName: target.UserName, XPAwarded: amount}
}

func (s *service) RedeemImage(ctx context.Context, img io.Reader, ip string) *RedeemResult {
	raw, err := ticket.DecodeImage(img)
	if err != nil {
		return errResult("No QR code found in the image")
	}
	return s.Redeem(ctx, raw, ip)
}

func errResult(msg string) *RedeemResult {
	return &RedeemResult{Status: StatusError, Message: msg}
}

func (s *service) audit(ctx context.Context, userID, eventID *uint, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.LogAction(ctx, userID, eventID, action, details, ip, status); err != nil {
		log.Printf("⚠️ Audit log write failed: %v", err)
	}
}
