package event

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🎯 Create Event
func (r *Repository) CreateEvent(e *Event) error {
	return r.DB.Create(e).Error
}

// ===========================
// 🔍 Get Event By ID with registration count
func (r *Repository) GetEventByID(id uint) (*Event, error) {
	var e Event
	if err := r.DB.First(&e, id).Error; err != nil {
		return nil, err
	}

	var count int64
	if err := r.DB.Table("registrations").
		Where("event_id = ?", id).
		Count(&count).Error; err != nil {
		return nil, err
	}
	e.RegistrationCount = int(count)

	return &e, nil
}

// ===========================
// 📡 Live events - published and inside (or within an hour of) their window.
// Populates the scanner's event selector.
func (r *Repository) GetLiveEvents(now time.Time) ([]LiveEvent, error) {
	var events []LiveEvent
	err := r.DB.Model(&Event{}).
		Select("id, title, start_time").
		Where("status = ? AND start_time <= ? AND end_time >= ?",
			StatusPublished, now.Add(time.Hour), now).
		Order("start_time ASC").
		Scan(&events).Error
	return events, err
}

// ===========================
// 📄 List Events With Pagination & Search
func (r *Repository) ListEvents(limit, offset int, search string) ([]Event, error) {
	var events []Event

	query := r.DB.Model(&Event{})
	if search != "" {
		ilike := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", ilike, ilike)
	}

	err := query.
		Order("start_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	for i := range events {
		var count int64
		r.DB.Table("registrations").
			Where("event_id = ?", events[i].ID).
			Count(&count)
		events[i].RegistrationCount = int(count)
	}

	return events, nil
}

// ===========================
// 🛠 Update Event
func (r *Repository) UpdateEvent(e *Event) error {
	return r.DB.Save(e).Error
}

// UpdateStatus changes only the lifecycle status, the single mutation
// still allowed once attendance exists.
func (r *Repository) UpdateStatus(id uint, status string) error {
	return r.DB.Model(&Event{}).Where("id = ?", id).Update("status", status).Error
}

// ===========================
// 🔢 Count recorded attendances for an event
func (r *Repository) CountAttended(eventID uint) (int64, error) {
	var count int64
	err := r.DB.Table("registrations").
		Where("event_id = ? AND attended = ?", eventID, true).
		Count(&count).Error
	return count, err
}
