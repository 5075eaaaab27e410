package checkin

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/sam0786-xyz/technova-backend/internal/event"
	"github.com/sam0786-xyz/technova-backend/internal/registration"
	"github.com/sam0786-xyz/technova-backend/internal/ticket"
)

type fakeStore struct {
	mu       sync.Mutex
	targets  map[[2]uint]*RedeemTarget // (eventID, userID)
	ledger   map[[2]uint]int
	orphaned bool // registration row without a surviving user
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		targets: make(map[[2]uint]*RedeemTarget),
		ledger:  make(map[[2]uint]int),
	}
}

func (f *fakeStore) put(eventID, userID uint, t *RedeemTarget) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets[[2]uint{eventID, userID}] = t
}

func (f *fakeStore) FindForRedeem(_ context.Context, eventID, userID uint) (*RedeemTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.targets[[2]uint{eventID, userID}]
	if !ok || f.orphaned {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) MarkAttended(_ context.Context, eventID, userID uint, xpAmount int, _ time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint{eventID, userID}
	t, ok := f.targets[key]
	if !ok || t.Attended {
		return false, nil
	}
	if _, dup := f.ledger[key]; dup {
		return false, nil
	}
	t.Attended = true
	f.ledger[key] = xpAmount
	return true, nil
}

type fakeFeedback struct {
	submitted bool
}

func (f *fakeFeedback) HasSubmitted(context.Context, uint, uint) (bool, error) {
	return f.submitted, nil
}

func workshopEvent() event.Event {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return event.Event{
		Title:           "Intro to Containers",
		EventType:       event.TypeWorkshop,
		DifficultyLevel: event.DifficultyEasy,
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
	}
}

func setup(t *testing.T) (*fakeStore, *ticket.Issuer, *fakeFeedback, Service) {
	t.Helper()
	store := newFakeStore()
	issuer := ticket.NewIssuer("test-ticket-secret")
	fb := &fakeFeedback{}
	svc := NewService(store, issuer, fb, nil)
	return store, issuer, fb, svc
}

func registered(t *testing.T, store *fakeStore, issuer *ticket.Issuer, eventID, userID uint, ev event.Event) string {
	t.Helper()
	nonce, token, err := issuer.Mint(userID, eventID)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	store.put(eventID, userID, &RedeemTarget{
		RegistrationID: 1,
		QRTokenID:      nonce,
		PaymentStatus:  registration.PaymentFree,
		UserName:       "Asha Rao",
		Event:          ev,
	})
	return token
}

func TestRedeemSuccessAwardsXP(t *testing.T) {
	store, issuer, _, svc := setup(t)
	token := registered(t, store, issuer, 7, 42, workshopEvent())

	res := svc.Redeem(context.Background(), token, "10.0.0.1")
	if res.Status != StatusSuccess {
		t.Fatalf("status = %q, want success (%s)", res.Status, res.Message)
	}
	if res.UserName != "Asha Rao" {
		t.Errorf("userName = %q", res.UserName)
	}
	// workshop, easy, one hour: 80 * 1.0 * 1.0
	if res.XPAwarded != 80 {
		t.Errorf("xpAwarded = %d, want 80", res.XPAwarded)
	}
	if got := store.ledger[[2]uint{7, 42}]; got != 80 {
		t.Errorf("ledger amount = %d, want 80", got)
	}
}

func TestRedeemTwiceScoresOnce(t *testing.T) {
	store, issuer, _, svc := setup(t)
	token := registered(t, store, issuer, 7, 42, workshopEvent())

	first := svc.Redeem(context.Background(), token, "10.0.0.1")
	second := svc.Redeem(context.Background(), token, "10.0.0.1")

	if first.Status != StatusSuccess {
		t.Fatalf("first status = %q", first.Status)
	}
	if second.Status != StatusAlreadyCheckedIn {
		t.Fatalf("second status = %q, want already_checked_in", second.Status)
	}
	if second.UserName != "Asha Rao" {
		t.Errorf("duplicate result should still name the holder, got %q", second.UserName)
	}
	if second.XPAwarded != 0 {
		t.Errorf("duplicate redeem awarded %d XP", second.XPAwarded)
	}
	if len(store.ledger) != 1 {
		t.Errorf("ledger has %d rows, want 1", len(store.ledger))
	}
}

func TestRedeemConcurrentScansOneWinner(t *testing.T) {
	store, issuer, _, svc := setup(t)
	token := registered(t, store, issuer, 7, 42, workshopEvent())

	const scans = 16
	results := make([]*RedeemResult, scans)
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Redeem(context.Background(), token, "10.0.0.1")
		}(i)
	}
	wg.Wait()

	var wins int
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			wins++
		case StatusAlreadyCheckedIn:
		default:
			t.Errorf("unexpected status %q: %s", r.Status, r.Message)
		}
	}
	if wins != 1 {
		t.Errorf("%d scans succeeded, want exactly 1", wins)
	}
	if len(store.ledger) != 1 {
		t.Errorf("ledger has %d rows, want 1", len(store.ledger))
	}
}

func TestRedeemRejectsInvalidToken(t *testing.T) {
	_, _, _, svc := setup(t)

	res := svc.Redeem(context.Background(), "not-a-jwt", "10.0.0.1")
	if res.Status != StatusError {
		t.Fatalf("status = %q, want error", res.Status)
	}
	if res.Message == "" {
		t.Error("error result should carry a message")
	}
}

func TestRedeemRejectsUnknownRegistration(t *testing.T) {
	_, issuer, _, svc := setup(t)

	// Valid signature, but no registration row behind it.
	_, token, err := issuer.Mint(42, 99)
	if err != nil {
		t.Fatal(err)
	}
	res := svc.Redeem(context.Background(), token, "10.0.0.1")
	if res.Status != StatusError {
		t.Fatalf("status = %q, want error", res.Status)
	}
	if !strings.Contains(res.Message, "registration") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestRedeemRejectsStaleCredential(t *testing.T) {
	store, issuer, _, svc := setup(t)
	old := registered(t, store, issuer, 7, 42, workshopEvent())

	// Re-issue rotates the nonce on record; the first copy must die.
	fresh, _, err := issuer.Mint(42, 7)
	if err != nil {
		t.Fatal(err)
	}
	store.targets[[2]uint{7, 42}].QRTokenID = fresh

	res := svc.Redeem(context.Background(), old, "10.0.0.1")
	if res.Status != StatusError {
		t.Fatalf("status = %q, want error", res.Status)
	}
}

func TestRedeemRejectsPendingPayment(t *testing.T) {
	store, issuer, _, svc := setup(t)
	token := registered(t, store, issuer, 7, 42, workshopEvent())
	store.targets[[2]uint{7, 42}].PaymentStatus = registration.PaymentPending

	res := svc.Redeem(context.Background(), token, "10.0.0.1")
	if res.Status != StatusError {
		t.Fatalf("status = %q, want error", res.Status)
	}
}

func TestRedeemFeedbackGate(t *testing.T) {
	store, issuer, fb, svc := setup(t)
	ev := workshopEvent()
	ev.RequiresFeedbackForAttendance = true
	token := registered(t, store, issuer, 7, 42, ev)

	res := svc.Redeem(context.Background(), token, "10.0.0.1")
	if res.Status != StatusFeedbackRequired {
		t.Fatalf("status = %q, want feedback_required", res.Status)
	}
	if len(store.ledger) != 0 {
		t.Error("blocked check-in must not award XP")
	}

	fb.submitted = true
	res = svc.Redeem(context.Background(), token, "10.0.0.1")
	if res.Status != StatusSuccess {
		t.Fatalf("status after feedback = %q, want success (%s)", res.Status, res.Message)
	}
}

func TestRedeemFeedbackGateOutranksDuplicate(t *testing.T) {
	store, issuer, fb, svc := setup(t)
	ev := workshopEvent()
	ev.RequiresFeedbackForAttendance = true
	token := registered(t, store, issuer, 7, 42, ev)
	store.targets[[2]uint{7, 42}].Attended = true

	// Re-scanning a consumed credential while feedback is outstanding must
	// report the missing submission, not the earlier check-in.
	res := svc.Redeem(context.Background(), token, "10.0.0.1")
	if res.Status != StatusFeedbackRequired {
		t.Fatalf("status = %q, want feedback_required", res.Status)
	}

	fb.submitted = true
	res = svc.Redeem(context.Background(), token, "10.0.0.1")
	if res.Status != StatusAlreadyCheckedIn {
		t.Fatalf("status with feedback on record = %q, want already_checked_in", res.Status)
	}
	if len(store.ledger) != 0 {
		t.Error("re-scan of a consumed credential awarded XP")
	}
}

func TestRedeemRejectsOrphanedRegistration(t *testing.T) {
	store, issuer, _, svc := setup(t)
	token := registered(t, store, issuer, 7, 42, workshopEvent())

	// The holder's account was deleted after registration; the lookup now
	// comes back empty and the redeem must fail rather than check in a
	// nameless attendee.
	store.orphaned = true

	res := svc.Redeem(context.Background(), token, "10.0.0.1")
	if res.Status != StatusError {
		t.Fatalf("status = %q, want error", res.Status)
	}
	if res.XPAwarded != 0 {
		t.Errorf("orphaned redeem awarded %d XP", res.XPAwarded)
	}
	if len(store.ledger) != 0 {
		t.Error("orphaned redeem wrote a ledger row")
	}
}
