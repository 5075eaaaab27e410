package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sam0786-xyz/technova-backend/config"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	Repo         *Repository
	accessSecret string
	accessTTL    time.Duration
}

func NewService(repo *Repository, cfg *config.Config) *Service {
	return &Service{
		Repo:         repo,
		accessSecret: cfg.JWTAccessSecret,
		accessTTL:    time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
	}
}

// ===========================
// 🧑 Register
func (s *Service) Register(req *RegisterRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		USN:          req.USN,
		Year:         req.Year,
		Course:       req.Course,
		RoleName:     RoleMember,
	}

	if err := s.Repo.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// ===========================
// 🔑 Login
func (s *Service) Login(req *LoginRequest) (*LoginResponse, error) {
	user, err := s.Repo.GetUserByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{AccessToken: token, User: *user}, nil
}

func (s *Service) GetUserByID(id uint) (*User, error) {
	return s.Repo.GetUserByID(id)
}

func (s *Service) SaveFCMToken(userID uint, token string) error {
	return s.Repo.SaveFCMToken(userID, token)
}

// GetFCMToken returns the user's registered device token, empty when the
// user never registered one.
func (s *Service) GetFCMToken(userID uint) (string, error) {
	user, err := s.Repo.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.FCMToken, nil
}

func (s *Service) issueAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.RoleName,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}
