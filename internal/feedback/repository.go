package feedback

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, fb *Feedback) error
	HasSubmitted(ctx context.Context, userID, eventID uint) (bool, error)
	ListByEvent(ctx context.Context, eventID uint) ([]Feedback, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, fb *Feedback) error {
	if err := r.db.WithContext(ctx).Create(fb).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadySubmitted
		}
		return err
	}
	return nil
}

func (r *repository) HasSubmitted(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Feedback{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByEvent(ctx context.Context, eventID uint) ([]Feedback, error) {
	var submissions []Feedback
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}
