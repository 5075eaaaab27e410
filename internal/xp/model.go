package xp

import (
	"time"
)

// ============================
// 🔷 GORM XP Ledger Model
//
// One row per verified attendance. The unique index on (user_id, event_id)
// is the hard guarantee that a credential can never be scored twice, no
// matter how the check-in path races.
type LedgerEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_xp_user_event" json:"user_id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_xp_user_event" json:"event_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "xp_ledger"
}

// UserTotal is the aggregate returned by the per-user XP query.
type UserTotal struct {
	UserID  uint `json:"user_id"`
	TotalXP int  `json:"total_xp"`
	Events  int  `json:"events"`
}
