package registration

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/sam0786-xyz/technova-backend/config"
	"github.com/sam0786-xyz/technova-backend/internal/auditlog"
	"github.com/sam0786-xyz/technova-backend/internal/auth"
	"github.com/sam0786-xyz/technova-backend/internal/event"
	"github.com/sam0786-xyz/technova-backend/internal/ticket"
	"github.com/sam0786-xyz/technova-backend/utils"
)

// EventStore and UserStore are the slices of neighbouring packages this
// service reads, injected so tests can swap in fakes.
type EventStore interface {
	GetEventByID(id uint) (*event.Event, error)
}

type UserStore interface {
	GetUserByID(id uint) (*auth.User, error)
}

type Service interface {
	Register(ctx context.Context, userID, eventID uint, answers []Answer, ip string) (*RegisterResult, error)
	ConfirmPayment(ctx context.Context, req VerifyPaymentRequest, ip string) (*TicketResponse, error)
	GetTicket(ctx context.Context, userID, eventID uint) (*TicketResponse, error)
	GetTicketPDF(ctx context.Context, userID, eventID uint) ([]byte, error)
	Roster(ctx context.Context, eventID uint) ([]RosterEntry, error)
	ListByUser(ctx context.Context, userID uint) ([]Registration, error)
}

type service struct {
	repo     Repository
	events   EventStore
	users    UserStore
	issuer   *ticket.Issuer
	gateway  PaymentGateway
	mailer   utils.Mailer
	auditSvc auditlog.Service
	cfg      *config.Config
}

func NewService(
	repo Repository,
	events EventStore,
	users UserStore,
	issuer *ticket.Issuer,
	gateway PaymentGateway,
	mailer utils.Mailer,
	auditSvc auditlog.Service,
	cfg *config.Config,
) Service {
	return &service{
		repo:     repo,
		events:   events,
		users:    users,
		issuer:   issuer,
		gateway:  gateway,
		mailer:   mailer,
		auditSvc: auditSvc,
		cfg:      cfg,
	}
}

// ===========================
// 🎯 Register for an event
func (s *service) Register(ctx context.Context, userID, eventID uint, answers []Answer, ip string) (*RegisterResult, error) {
	ev, err := s.events.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}
	if ev.Status != event.StatusPublished {
		return nil, ErrEventNotOpen
	}

	// Fast-path duplicate check; the unique index is the real guarantee.
	if _, err := s.repo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, ErrNotRegistered) {
		return nil, err
	}

	if err := ValidateAnswers(answers); err != nil {
		return nil, err
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if !ev.IsFree() {
		return s.registerPaid(ctx, user, ev, answersJSON, ip)
	}
	return s.registerFree(ctx, user, ev, answersJSON, ip)
}

// Paid events: gateway order first, registration parked as pending with
// the order id standing in for the credential until confirmation.
func (s *service) registerPaid(ctx context.Context, user *auth.User, ev *event.Event, answersJSON []byte, ip string) (*RegisterResult, error) {
	orderID, err := s.gateway.CreateOrder(ev.PriceMinor, map[string]interface{}{
		"user_id":  user.ID,
		"event_id": ev.ID,
	})
	if err != nil {
		s.auditSvc.LogAction(ctx, &user.ID, &ev.ID, "REGISTRATION_PAYMENT_INIT",
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}

	reg := &Registration{
		EventID:       ev.ID,
		UserID:        user.ID,
		PaymentStatus: PaymentPending,
		QRTokenID:     orderID,
		Answers:       answersJSON,
	}
	if err := s.repo.RegisterWithCapacity(ctx, reg); err != nil {
		s.auditSvc.LogAction(ctx, &user.ID, &ev.ID, "REGISTRATION_CREATED",
			map[string]interface{}{"error": err.Error(), "order_id": orderID}, ip, "failure")
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &user.ID, &ev.ID, "REGISTRATION_CREATED",
		map[string]interface{}{"payment_status": PaymentPending, "order_id": orderID}, ip, "success")

	utils.RevalidateEventViews(ctx, ev.ID)

	return &RegisterResult{
		Status:      "payment_required",
		OrderID:     orderID,
		AmountMinor: ev.PriceMinor,
		RazorpayKey: s.cfg.RazorpayKey,
	}, nil
}

// Free events: credential minted immediately, ticket mailed best-effort.
func (s *service) registerFree(ctx context.Context, user *auth.User, ev *event.Event, answersJSON []byte, ip string) (*RegisterResult, error) {
	nonce, token, err := s.issuer.Mint(user.ID, ev.ID)
	if err != nil {
		return nil, err
	}

	reg := &Registration{
		EventID:       ev.ID,
		UserID:        user.ID,
		PaymentStatus: PaymentFree,
		QRTokenID:     nonce,
		Answers:       answersJSON,
	}
	if err := s.repo.RegisterWithCapacity(ctx, reg); err != nil {
		s.auditSvc.LogAction(ctx, &user.ID, &ev.ID, "REGISTRATION_CREATED",
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}

	resp, err := s.renderTicket(nonce, token, user, ev)
	if err != nil {
		return nil, err
	}

	// Ticket mail is best-effort: a dead SMTP relay must never unwind a
	// registration that is already on the books.
	if err := s.mailer.Send(user.Email, "Your ticket for "+ev.Title,
		utils.TicketEmailBody(user.FullName, ev.Title, resp.QRDataURL)); err != nil {
		log.Printf("⚠️ Ticket email to %s failed: %v", user.Email, err)
	}

	s.auditSvc.LogAction(ctx, &user.ID, &ev.ID, "REGISTRATION_CREATED",
		map[string]interface{}{"payment_status": PaymentFree, "token_id": nonce}, ip, "success")

	utils.RevalidateEventViews(ctx, ev.ID)

	return &RegisterResult{Status: "registered", Ticket: resp}, nil
}

// ===========================
// 💳 Confirm payment, issue the real credential
func (s *service) ConfirmPayment(ctx context.Context, req VerifyPaymentRequest, ip string) (*TicketResponse, error) {
	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.RazorpaySig) {
		s.auditSvc.LogAction(ctx, nil, nil, "PAYMENT_VERIFICATION_FAILED",
			map[string]interface{}{"order_id": req.OrderID, "payment_id": req.PaymentID}, ip, "failure")
		return nil, ErrPaymentInvalid
	}

	reg, err := s.repo.GetPendingByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(reg.UserID)
	if err != nil {
		return nil, err
	}
	ev, err := s.events.GetEventByID(reg.EventID)
	if err != nil {
		return nil, err
	}

	nonce, token, err := s.issuer.Mint(reg.UserID, reg.EventID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkPaid(ctx, reg.ID, nonce); err != nil {
		return nil, err
	}

	resp, err := s.renderTicket(nonce, token, user, ev)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.Send(user.Email, "Your ticket for "+ev.Title,
		utils.TicketEmailBody(user.FullName, ev.Title, resp.QRDataURL)); err != nil {
		log.Printf("⚠️ Ticket email to %s failed: %v", user.Email, err)
	}

	s.auditSvc.LogAction(ctx, &reg.UserID, &reg.EventID, "PAYMENT_CONFIRMED",
		map[string]interface{}{"order_id": req.OrderID, "payment_id": req.PaymentID}, ip, "success")

	return resp, nil
}

// ===========================
// 🎟 Ticket re-render (idempotent)
//
// Ticket pages re-request the artifact on every view; the stored nonce
// makes re-rendering reproduce the identical credential instead of
// minting a new identity.
func (s *service) GetTicket(ctx context.Context, userID, eventID uint) (*TicketResponse, error) {
	reg, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if reg.PaymentStatus == PaymentPending {
		return nil, ErrPaymentPending
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	ev, err := s.events.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Sign(userID, eventID, reg.QRTokenID)
	if err != nil {
		return nil, err
	}
	return s.renderTicket(reg.QRTokenID, token, user, ev)
}

func (s *service) GetTicketPDF(ctx context.Context, userID, eventID uint) ([]byte, error) {
	reg, err := s.repo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if reg.PaymentStatus == PaymentPending {
		return nil, ErrPaymentPending
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	ev, err := s.events.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Sign(userID, eventID, reg.QRTokenID)
	if err != nil {
		return nil, err
	}
	artifact, err := ticket.Render(reg.QRTokenID, token, holderFor(user))
	if err != nil {
		return nil, err
	}
	return ticket.RenderPDF(artifact, ev.Title)
}

func (s *service) Roster(ctx context.Context, eventID uint) ([]RosterEntry, error) {
	return s.repo.Roster(ctx, eventID)
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]Registration, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) renderTicket(nonce, token string, user *auth.User, ev *event.Event) (*TicketResponse, error) {
	artifact, err := ticket.Render(nonce, token, holderFor(user))
	if err != nil {
		return nil, err
	}
	return &TicketResponse{
		TokenID:    nonce,
		Token:      token,
		QRDataURL:  artifact.DataURL,
		HolderName: user.FullName,
		HolderUSN:  user.USN,
		HolderYear: user.Year,
		Course:     user.Course,
		EventTitle: ev.Title,
	}, nil
}

func holderFor(user *auth.User) ticket.Holder {
	return ticket.Holder{
		Name:   user.FullName,
		USN:    user.USN,
		Year:   user.Year,
		Course: user.Course,
	}
}
