package auth

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) CreateUser(u *User) error {
	return r.DB.Create(u).Error
}

func (r *Repository) GetUserByID(id uint) (*User, error) {
	var u User
	if err := r.DB.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUserByEmail(email string) (*User, error) {
	var u User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) SaveFCMToken(userID uint, token string) error {
	return r.DB.Model(&User{}).Where("id = ?", userID).Update("fcm_token", token).Error
}
