package event

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sam0786-xyz/technova-backend/internal/auditlog"
	"github.com/sam0786-xyz/technova-backend/middleware"
	"github.com/sam0786-xyz/technova-backend/utils"
)

var (
	// ErrEventLocked: once anyone has checked in, the event's metadata is
	// frozen. XP already awarded was computed from it; only the lifecycle
	// status may still move.
	ErrEventLocked = errors.New("event cannot be modified after attendance is recorded")

	ErrInvalidEventType = errors.New("invalid event_type")
	ErrInvalidTimes     = errors.New("end_time must be after start_time")
)

// Store is the persistence surface the service needs. *Repository
// satisfies it; tests substitute a fake.
type Store interface {
	CreateEvent(e *Event) error
	GetEventByID(id uint) (*Event, error)
	GetLiveEvents(now time.Time) ([]LiveEvent, error)
	ListEvents(limit, offset int, search string) ([]Event, error)
	UpdateEvent(e *Event) error
	UpdateStatus(id uint, status string) error
	CountAttended(eventID uint) (int64, error)
}

// Service wraps business logic for club events
type Service struct {
	Repo     Store
	AuditSvc auditlog.Service
}

func NewService(r Store, auditSvc auditlog.Service) *Service {
	return &Service{Repo: r, AuditSvc: auditSvc}
}

// ===========================
// 🎯 Create Event
func (s *Service) CreateEvent(req *CreateEventRequest, accessContext middleware.AccessContext, ip string) (*Event, error) {
	e, err := s.eventFromRequest(req)
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, nil, "EVENT_CREATED",
			map[string]interface{}{"title": req.Title, "error": err.Error()}, ip, "failure")
		return nil, err
	}
	e.CreatedBy = accessContext.UserID
	e.Status = StatusDraft

	if err := s.Repo.CreateEvent(e); err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, nil, "EVENT_CREATED",
			map[string]interface{}{"title": req.Title, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &e.ID, "EVENT_CREATED",
		map[string]interface{}{
			"title":      e.Title,
			"event_type": e.EventType,
			"capacity":   e.Capacity,
			"price":      e.PriceMinor,
		}, ip, "success")

	return e, nil
}

// ===========================
// 🛠 Update Event
//
// Frozen once attendance exists, except the status transition.
func (s *Service) UpdateEvent(id uint, req *UpdateEventRequest, accessContext middleware.AccessContext, ip string) (*Event, error) {
	existing, err := s.Repo.GetEventByID(id)
	if err != nil {
		return nil, err
	}

	attended, err := s.Repo.CountAttended(id)
	if err != nil {
		return nil, err
	}

	if attended > 0 {
		if req.Status == "" || req.Status == existing.Status {
			s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_UPDATED",
				map[string]interface{}{"error": "event locked by recorded attendance"}, ip, "failure")
			return nil, ErrEventLocked
		}
		if err := s.Repo.UpdateStatus(id, req.Status); err != nil {
			return nil, err
		}
		existing.Status = req.Status

		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_STATUS_CHANGED",
			map[string]interface{}{"status": req.Status}, ip, "success")

		utils.RevalidateEventViews(context.Background(), id)
		return existing, nil
	}

	updated, err := s.eventFromRequest(&req.CreateEventRequest)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.Status = existing.Status
	if req.Status != "" {
		updated.Status = req.Status
	}

	if err := s.Repo.UpdateEvent(updated); err != nil {
		s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_UPDATED",
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), &accessContext.UserID, &id, "EVENT_UPDATED",
		map[string]interface{}{"title": updated.Title}, ip, "success")

	utils.RevalidateEventViews(context.Background(), id)
	return updated, nil
}

// ===========================
// 📡 Live events, cache-first
func (s *Service) GetLiveEvents(ctx context.Context) ([]LiveEvent, error) {
	if cached := utils.GetCachedLiveEvents(ctx); cached != nil {
		var events []LiveEvent
		if err := json.Unmarshal(cached, &events); err == nil {
			return events, nil
		}
	}

	events, err := s.Repo.GetLiveEvents(time.Now())
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(events); err == nil {
		utils.CacheLiveEvents(ctx, payload)
	}

	return events, nil
}

func (s *Service) GetEventByID(id uint) (*Event, error) {
	return s.Repo.GetEventByID(id)
}

// ===========================
// 📡 Single-event public view, cache-first
//
// Serves the public detail page. Mutations invalidate through
// utils.RevalidateEventViews; invariant-bearing reads (registration,
// check-in) stay on GetEventByID so they never see a stale row.
func (s *Service) GetEventView(ctx context.Context, id uint) (*Event, error) {
	if cached := utils.GetCachedEventView(ctx, id); cached != nil {
		var e Event
		if err := json.Unmarshal(cached, &e); err == nil {
			return &e, nil
		}
	}

	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(e); err == nil {
		utils.CacheEventView(ctx, id, payload)
	}

	return e, nil
}

func (s *Service) ListEvents(limit, offset int, search string) ([]Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListEvents(limit, offset, search)
}

// ===========================
// 🔄 Request parsing & validation
func (s *Service) eventFromRequest(req *CreateEventRequest) (*Event, error) {
	switch req.EventType {
	case TypeTalkSeminar, TypeWorkshop, TypeHackathon, TypeCompetition:
	default:
		return nil, ErrInvalidEventType
	}

	difficulty := req.DifficultyLevel
	if difficulty == "" {
		difficulty = DifficultyEasy
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.New("invalid start_time format. Use RFC3339")
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, errors.New("invalid end_time format. Use RFC3339")
	}
	if !end.After(start) {
		return nil, ErrInvalidTimes
	}

	var dayStart, dayEnd *time.Time
	if req.IsMultiDay {
		if req.DayStartTime != "" {
			t, err := time.Parse("15:04", req.DayStartTime)
			if err != nil {
				return nil, errors.New("invalid day_start_time format. Use HH:MM")
			}
			normalized := time.Date(0, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
			dayStart = &normalized
		}
		if req.DayEndTime != "" {
			t, err := time.Parse("15:04", req.DayEndTime)
			if err != nil {
				return nil, errors.New("invalid day_end_time format. Use HH:MM")
			}
			normalized := time.Date(0, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
			dayEnd = &normalized
		}
	}

	return &Event{
		Title:           req.Title,
		Description:     req.Description,
		EventType:       req.EventType,
		DifficultyLevel: difficulty,
		Capacity:        req.Capacity,
		PriceMinor:      req.PriceMinor,
		StartTime:       start,
		EndTime:         end,
		IsMultiDay:      req.IsMultiDay,
		DayStartTime:    dayStart,
		DayEndTime:      dayEnd,
		IsVirtual:       req.IsVirtual,
		RequiresFeedbackForAttendance: req.RequiresFeedbackForAttendance,
	}, nil
}
