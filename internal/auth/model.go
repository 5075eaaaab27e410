package auth

import (
	"time"
)

// Role names. Organizers run events and scanners; admins additionally see
// audit logs. Everyone else is a member.
const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleMember    = "member"
)

// ============================
// 🔷 GORM User Model
//
// USN / Year / Course are printed on the ticket for manual verification.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	USN          string    `gorm:"type:varchar(50);uniqueIndex" json:"usn"`
	Year         string    `gorm:"type:varchar(10)" json:"year"`
	Course       string    `gorm:"type:varchar(100)" json:"course"`
	ImageURL     string    `gorm:"type:text" json:"image_url"`
	RoleName     string    `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	FCMToken     string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// ============================
// 🟡 Requests / Responses
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	USN      string `json:"usn" binding:"required"`
	Year     string `json:"year"`
	Course   string `json:"course"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
