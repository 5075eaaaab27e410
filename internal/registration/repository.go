package registration

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sam0786-xyz/technova-backend/internal/event"
)

type Repository interface {
	// RegisterWithCapacity inserts the registration only if the event still
	// has room, all inside one transaction with the event row locked - two
	// concurrent registrants at the boundary cannot both pass the count.
	RegisterWithCapacity(ctx context.Context, reg *Registration) error
	GetByEventAndUser(ctx context.Context, eventID, userID uint) (*Registration, error)
	GetPendingByOrderID(ctx context.Context, orderID string) (*Registration, error)
	MarkPaid(ctx context.Context, regID uint, tokenID string) error
	Roster(ctx context.Context, eventID uint) ([]RosterEntry, error)
	ListByUser(ctx context.Context, userID uint) ([]Registration, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ===========================
// 🎯 Atomic capacity-checked insert
func (r *repository) RegisterWithCapacity(ctx context.Context, reg *Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the event row so concurrent registrations for the same
		// event serialize on the count below.
		var ev event.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ev, reg.EventID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&Registration{}).
			Where("event_id = ?", reg.EventID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(ev.Capacity) {
			return ErrEventFull
		}

		if err := tx.Create(reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
}

func (r *repository) GetByEventAndUser(ctx context.Context, eventID, userID uint) (*Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	return &reg, nil
}

// GetPendingByOrderID finds the registration holding a gateway order id as
// its placeholder token.
func (r *repository) GetPendingByOrderID(ctx context.Context, orderID string) (*Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).
		Where("payment_status = ? AND qr_token_id = ?", PaymentPending, orderID).
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	return &reg, nil
}

// MarkPaid swaps the placeholder order id for the real credential id.
func (r *repository) MarkPaid(ctx context.Context, regID uint, tokenID string) error {
	return r.db.WithContext(ctx).
		Model(&Registration{}).
		Where("id = ?", regID).
		Updates(map[string]interface{}{
			"payment_status": PaymentPaid,
			"qr_token_id":    tokenID,
		}).Error
}

// ===========================
// 📋 Attendee roster for one event
func (r *repository) Roster(ctx context.Context, eventID uint) ([]RosterEntry, error) {
	var roster []RosterEntry
	err := r.db.WithContext(ctx).
		Table("registrations reg").
		Select(`
			reg.id as registration_id, reg.user_id, reg.attended,
			reg.checked_in_at, reg.created_at as registered_at,
			u.full_name, u.email, u.image_url
		`).
		Joins("JOIN users u ON u.id = reg.user_id").
		Where("reg.event_id = ?", eventID).
		Order("u.full_name ASC").
		Scan(&roster).Error
	return roster, err
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Registration, error) {
	var regs []Registration
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs).Error
	return regs, err
}
