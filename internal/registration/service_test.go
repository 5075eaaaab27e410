package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sam0786-xyz/technova-backend/config"
	"github.com/sam0786-xyz/technova-backend/internal/auditlog"
	"github.com/sam0786-xyz/technova-backend/internal/auth"
	"github.com/sam0786-xyz/technova-backend/internal/event"
	"github.com/sam0786-xyz/technova-backend/internal/ticket"
)

// fakeRepo honours the same atomic contract as the real repository: the
// capacity count and the insert happen under one lock.
type fakeRepo struct {
	mu       sync.Mutex
	capacity int
	regs     map[[2]uint]*Registration // (eventID, userID)
	nextID   uint
}

func newFakeRepo(capacity int) *fakeRepo {
	return &fakeRepo{capacity: capacity, regs: make(map[[2]uint]*Registration), nextID: 1}
}

func (f *fakeRepo) RegisterWithCapacity(_ context.Context, reg *Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int
	for k := range f.regs {
		if k[0] == reg.EventID {
			count++
		}
	}
	if count >= f.capacity {
		return ErrEventFull
	}
	key := [2]uint{reg.EventID, reg.UserID}
	if _, dup := f.regs[key]; dup {
		return ErrAlreadyRegistered
	}
	reg.ID = f.nextID
	f.nextID++
	cp := *reg
	f.regs[key] = &cp
	return nil
}

func (f *fakeRepo) GetByEventAndUser(_ context.Context, eventID, userID uint) (*Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[[2]uint{eventID, userID}]
	if !ok {
		return nil, ErrNotRegistered
	}
	cp := *reg
	return &cp, nil
}

func (f *fakeRepo) GetPendingByOrderID(_ context.Context, orderID string) (*Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.regs {
		if reg.PaymentStatus == PaymentPending && reg.QRTokenID == orderID {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, ErrNotRegistered
}

func (f *fakeRepo) MarkPaid(_ context.Context, regID uint, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.regs {
		if reg.ID == regID {
			reg.PaymentStatus = PaymentPaid
			reg.QRTokenID = tokenID
			return nil
		}
	}
	return ErrNotRegistered
}

func (f *fakeRepo) Roster(context.Context, uint) ([]RosterEntry, error) { return nil, nil }

func (f *fakeRepo) ListByUser(context.Context, uint) ([]Registration, error) { return nil, nil }

type fakeEvents struct {
	events map[uint]*event.Event
}

func (f *fakeEvents) GetEventByID(id uint) (*event.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, errors.New("event not found")
	}
	return ev, nil
}

type fakeUsers struct{}

func (fakeUsers) GetUserByID(id uint) (*auth.User, error) {
	return &auth.User{
		ID:       id,
		FullName: fmt.Sprintf("Member %d", id),
		Email:    fmt.Sprintf("member%d@example.com", id),
		USN:      fmt.Sprintf("1TN%02d", id),
		Year:     "3rd",
		Course:   "CSE",
	}, nil
}

type fakeGateway struct {
	orders []string
	valid  bool
}

func (f *fakeGateway) CreateOrder(int64, map[string]interface{}) (string, error) {
	id := fmt.Sprintf("order_%d", len(f.orders)+1)
	f.orders = append(f.orders, id)
	return id, nil
}

func (f *fakeGateway) VerifySignature(string, string, string) bool { return f.valid }

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeMailer) Send(to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp: relay down")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeAudit struct{}

func (fakeAudit) LogAction(context.Context, *uint, *uint, string, map[string]interface{}, string, string) error {
	return nil
}

func (fakeAudit) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

func publishedEvent(id uint, capacity int, priceMinor int64) *event.Event {
	start := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	return &event.Event{
		ID:              id,
		Title:           "Cloud Native Day",
		EventType:       event.TypeWorkshop,
		DifficultyLevel: event.DifficultyEasy,
		Capacity:        capacity,
		PriceMinor:      priceMinor,
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		Status:          event.StatusPublished,
	}
}

func newTestService(repo Repository, ev *event.Event, gateway PaymentGateway, mailer *fakeMailer) Service {
	events := &fakeEvents{events: map[uint]*event.Event{ev.ID: ev}}
	cfg := &config.Config{RazorpayKey: "rzp_test_key", TicketSecret: "test-ticket-secret"}
	issuer := ticket.NewIssuer(cfg.TicketSecret)
	return NewService(repo, events, fakeUsers{}, issuer, gateway, mailer, fakeAudit{}, cfg)
}

func TestRegisterFreeIssuesTicket(t *testing.T) {
	repo := newFakeRepo(10)
	mailer := &fakeMailer{}
	svc := newTestService(repo, publishedEvent(1, 10, 0), &fakeGateway{}, mailer)

	res, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Status != "registered" {
		t.Fatalf("status = %q", res.Status)
	}
	if res.Ticket == nil || res.Ticket.Token == "" || res.Ticket.QRDataURL == "" {
		t.Fatal("free registration must return a rendered ticket")
	}
	reg, err := repo.GetByEventAndUser(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if reg.QRTokenID != res.Ticket.TokenID {
		t.Error("stored token id must match the issued credential")
	}
	if len(mailer.sent) != 1 {
		t.Errorf("mailer sent %d messages, want 1", len(mailer.sent))
	}
}

func TestRegisterMailFailureIsNotFatal(t *testing.T) {
	repo := newFakeRepo(10)
	svc := newTestService(repo, publishedEvent(1, 10, 0), &fakeGateway{}, &fakeMailer{fail: true})

	res, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("register should survive a dead relay: %v", err)
	}
	if res.Status != "registered" {
		t.Fatalf("status = %q", res.Status)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newFakeRepo(10)
	svc := newTestService(repo, publishedEvent(1, 10, 0), &fakeGateway{}, &fakeMailer{})

	if _, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
}

func TestRegisterUnpublishedEvent(t *testing.T) {
	repo := newFakeRepo(10)
	ev := publishedEvent(1, 10, 0)
	ev.Status = event.StatusDraft
	svc := newTestService(repo, ev, &fakeGateway{}, &fakeMailer{})

	if _, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1"); !errors.Is(err, ErrEventNotOpen) {
		t.Fatalf("err = %v, want ErrEventNotOpen", err)
	}
}

func TestRegisterCapacityBoundaryUnderContention(t *testing.T) {
	const capacity = 5
	const contenders = 40

	repo := newFakeRepo(capacity)
	svc := newTestService(repo, publishedEvent(1, capacity, 0), &fakeGateway{}, &fakeMailer{})

	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), uint(100+i), 1, nil, "10.0.0.1")
		}(i)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrEventFull):
			full++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != capacity {
		t.Errorf("%d registrations succeeded, want exactly %d", ok, capacity)
	}
	if full != contenders-capacity {
		t.Errorf("%d rejected as full, want %d", full, contenders-capacity)
	}
}

func TestRegisterPaidReturnsOrder(t *testing.T) {
	repo := newFakeRepo(10)
	gateway := &fakeGateway{}
	svc := newTestService(repo, publishedEvent(1, 10, 49900), gateway, &fakeMailer{})

	res, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Status != "payment_required" {
		t.Fatalf("status = %q, want payment_required", res.Status)
	}
	if res.OrderID == "" || res.AmountMinor != 49900 || res.RazorpayKey == "" {
		t.Errorf("incomplete payment handoff: %+v", res)
	}
	if res.Ticket != nil {
		t.Error("no ticket before payment confirms")
	}

	// The pending registration must not redeem as a ticket yet.
	if _, err := svc.GetTicket(context.Background(), 5, 1); !errors.Is(err, ErrPaymentPending) {
		t.Fatalf("GetTicket err = %v, want ErrPaymentPending", err)
	}
}

func TestConfirmPaymentIssuesTicket(t *testing.T) {
	repo := newFakeRepo(10)
	gateway := &fakeGateway{valid: true}
	mailer := &fakeMailer{}
	svc := newTestService(repo, publishedEvent(1, 10, 49900), gateway, mailer)

	res, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.ConfirmPayment(context.Background(), VerifyPaymentRequest{
		OrderID:     res.OrderID,
		PaymentID:   "pay_123",
		RazorpaySig: "sig",
	}, "10.0.0.1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if resp.Token == "" || resp.TokenID == res.OrderID {
		t.Error("confirmation must mint a real credential, not reuse the order id")
	}
	if len(mailer.sent) != 1 {
		t.Errorf("mailer sent %d messages, want 1", len(mailer.sent))
	}

	reg, err := repo.GetByEventAndUser(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if reg.PaymentStatus != PaymentPaid {
		t.Errorf("payment status = %q, want paid", reg.PaymentStatus)
	}
	if reg.QRTokenID != resp.TokenID {
		t.Error("stored token id must match the issued credential")
	}
}

func TestConfirmPaymentRejectsBadSignature(t *testing.T) {
	repo := newFakeRepo(10)
	svc := newTestService(repo, publishedEvent(1, 10, 49900), &fakeGateway{valid: false}, &fakeMailer{})

	res, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err = svc.ConfirmPayment(context.Background(), VerifyPaymentRequest{
		OrderID:     res.OrderID,
		PaymentID:   "pay_123",
		RazorpaySig: "forged",
	}, "10.0.0.1")
	if !errors.Is(err, ErrPaymentInvalid) {
		t.Fatalf("err = %v, want ErrPaymentInvalid", err)
	}
}

func TestGetTicketIsIdempotent(t *testing.T) {
	repo := newFakeRepo(10)
	svc := newTestService(repo, publishedEvent(1, 10, 0), &fakeGateway{}, &fakeMailer{})

	res, err := svc.Register(context.Background(), 5, 1, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := svc.GetTicket(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := svc.GetTicket(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first.Token != second.Token || first.Token != res.Ticket.Token {
		t.Error("re-rendering must reproduce the identical credential")
	}
	if first.QRDataURL != second.QRDataURL {
		t.Error("re-rendered QR artifact differs")
	}
}
