package feedback

import (
	"context"

	"github.com/sam0786-xyz/technova-backend/internal/auditlog"
)

type Service interface {
	Submit(ctx context.Context, userID, eventID uint, req SubmitRequest, ip string) (*Feedback, error)
	// HasSubmitted is the gate the check-in validator consults for
	// feedback-required events.
	HasSubmitted(ctx context.Context, userID, eventID uint) (bool, error)
	ListByEvent(ctx context.Context, eventID uint) ([]Feedback, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

func (s *service) Submit(ctx context.Context, userID, eventID uint, req SubmitRequest, ip string) (*Feedback, error) {
	fb := &Feedback{
		EventID:  eventID,
		UserID:   userID,
		Rating:   req.Rating,
		Comments: req.Comments,
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		s.auditSvc.LogAction(ctx, &userID, &eventID, "FEEDBACK_SUBMITTED",
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &userID, &eventID, "FEEDBACK_SUBMITTED",
		map[string]interface{}{"rating": req.Rating}, ip, "success")

	return fb, nil
}

func (s *service) HasSubmitted(ctx context.Context, userID, eventID uint) (bool, error) {
	return s.repo.HasSubmitted(ctx, userID, eventID)
}

func (s *service) ListByEvent(ctx context.Context, eventID uint) ([]Feedback, error) {
	return s.repo.ListByEvent(ctx, eventID)
}
