package notification

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/sam0786-xyz/technova-backend/utils"
)

// TokenSource resolves a user's registered FCM device token. Satisfied by
// auth.Service.
type TokenSource interface {
	GetFCMToken(userID uint) (string, error)
}

type Service interface {
	// Notify stores an in-app notification and, when the user has a device
	// token registered, mirrors it as a push message.
	Notify(ctx context.Context, userID uint, eventID *uint, title, body string) error
	ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
}

type service struct {
	repo   Repository
	tokens TokenSource
}

func NewService(repo Repository, tokens TokenSource) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Notify(ctx context.Context, userID uint, eventID *uint, title, body string) error {
	n := &Notification{
		UserID:  userID,
		EventID: eventID,
		Title:   title,
		Body:    body,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	// Push delivery is best-effort; the in-app row above is the record.
	s.push(ctx, userID, title, body)
	return nil
}

func (s *service) push(ctx context.Context, userID uint, title, body string) {
	client := utils.GetFCMClient()
	if client == nil {
		return
	}
	token, err := s.tokens.GetFCMToken(userID)
	if err != nil || token == "" {
		return
	}

	_, err = client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		log.Printf("⚠️ FCM push to user %d failed: %v", userID, err)
	}
}

func (s *service) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}
