package xp

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Append inserts a ledger row inside the caller's transaction.
	// Returns gorm.ErrDuplicatedKey when the (user, event) pair was
	// already scored.
	Append(tx *gorm.DB, entry *LedgerEntry) error
	GetUserTotal(ctx context.Context, userID uint) (*UserTotal, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]LedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(tx *gorm.DB, entry *LedgerEntry) error {
	return tx.Create(entry).Error
}

func (r *repository) GetUserTotal(ctx context.Context, userID uint) (*UserTotal, error) {
	total := &UserTotal{UserID: userID}
	err := r.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) as total_xp, COUNT(*) as events").
		Where("user_id = ?", userID).
		Scan(total).Error
	if err != nil {
		return nil, err
	}
	return total, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint, limit int) ([]LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var entries []LedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
