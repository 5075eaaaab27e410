package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sam0786-xyz/technova-backend/internal/auditlog"
	"github.com/sam0786-xyz/technova-backend/middleware"
)

type fakeStore struct {
	events       map[uint]*Event
	attended     map[uint]int64
	getByIDCalls int
	updated      *Event
	statusSet    string
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: make(map[uint]*Event), attended: make(map[uint]int64)}
}

func (f *fakeStore) CreateEvent(e *Event) error {
	e.ID = uint(len(f.events) + 1)
	f.events[e.ID] = e
	return nil
}

func (f *fakeStore) GetEventByID(id uint) (*Event, error) {
	f.getByIDCalls++
	e, ok := f.events[id]
	if !ok {
		return nil, errors.New("event not found")
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) GetLiveEvents(time.Time) ([]LiveEvent, error) { return nil, nil }

func (f *fakeStore) ListEvents(int, int, string) ([]Event, error) { return nil, nil }

func (f *fakeStore) UpdateEvent(e *Event) error {
	f.updated = e
	f.events[e.ID] = e
	return nil
}

func (f *fakeStore) UpdateStatus(id uint, status string) error {
	f.statusSet = status
	f.events[id].Status = status
	return nil
}

func (f *fakeStore) CountAttended(eventID uint) (int64, error) {
	return f.attended[eventID], nil
}

type noopAudit struct{}

func (noopAudit) LogAction(context.Context, *uint, *uint, string, map[string]interface{}, string, string) error {
	return nil
}

func (noopAudit) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

func seeded(store *fakeStore) *Event {
	e := &Event{
		ID:              1,
		Title:           "Cloud Native Day",
		EventType:       TypeWorkshop,
		DifficultyLevel: DifficultyEasy,
		Capacity:        50,
		StartTime:       time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 4, 2, 11, 0, 0, 0, time.UTC),
		Status:          StatusPublished,
	}
	store.events[1] = e
	return e
}

func TestGetEventViewReadsThroughToStore(t *testing.T) {
	store := newFakeStore()
	seeded(store)
	svc := NewService(store, noopAudit{})
	ctx := context.Background()

	// Redis is not connected here, so every read must land on the store:
	// the view path never holds an in-process copy of its own.
	for i := 0; i < 2; i++ {
		e, err := svc.GetEventView(ctx, 1)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if e.Title != "Cloud Native Day" {
			t.Fatalf("read %d: title = %q", i, e.Title)
		}
	}
	if store.getByIDCalls != 2 {
		t.Errorf("store reads = %d, want 2", store.getByIDCalls)
	}

	if _, err := svc.GetEventView(ctx, 99); err == nil {
		t.Fatal("expected error for unknown event")
	}
}

func updateRequest(title, status string) *UpdateEventRequest {
	return &UpdateEventRequest{
		CreateEventRequest: CreateEventRequest{
			Title:     title,
			EventType: TypeWorkshop,
			Capacity:  50,
			StartTime: "2026-04-02T09:00:00Z",
			EndTime:   "2026-04-02T11:00:00Z",
		},
		Status: status,
	}
}

func TestUpdateEventFrozenOnceAttended(t *testing.T) {
	store := newFakeStore()
	seeded(store)
	store.attended[1] = 3
	svc := NewService(store, noopAudit{})
	ac := middleware.AccessContext{UserID: 9, RoleName: "organizer"}

	if _, err := svc.UpdateEvent(1, updateRequest("Renamed", ""), ac, "10.0.0.1"); !errors.Is(err, ErrEventLocked) {
		t.Fatalf("err = %v, want ErrEventLocked", err)
	}

	// The lifecycle status may still move.
	e, err := svc.UpdateEvent(1, updateRequest("Renamed", StatusCompleted), ac, "10.0.0.1")
	if err != nil {
		t.Fatalf("status transition: %v", err)
	}
	if e.Status != StatusCompleted || store.statusSet != StatusCompleted {
		t.Errorf("status = %q, stored = %q", e.Status, store.statusSet)
	}
	if store.events[1].Title != "Cloud Native Day" {
		t.Error("metadata must stay frozen during a status-only update")
	}
}

func TestUpdateEventBeforeAttendance(t *testing.T) {
	store := newFakeStore()
	seeded(store)
	svc := NewService(store, noopAudit{})
	ac := middleware.AccessContext{UserID: 9, RoleName: "organizer"}

	e, err := svc.UpdateEvent(1, updateRequest("Renamed", ""), ac, "10.0.0.1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if e.Title != "Renamed" {
		t.Errorf("title = %q", e.Title)
	}
}
