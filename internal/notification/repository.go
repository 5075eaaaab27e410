package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []Notification
	err := q.Order("created_at DESC").Limit(100).Find(&out).Error
	return out, err
}

func (r *repository) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}
