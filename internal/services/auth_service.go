package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskflow/internal/config"
	"taskflow/internal/dto"
	"taskflow/internal/models"
)

var (
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike so login failures do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAvatarNotFound     = errors.New("avatar not found")
)

// userColumns is the default read set. Avatar bytes stay out of every
// query except GetAvatar; avatar_set carries presence for the profile view.
const userColumns = "id, name, email, calendar_sync_enabled, " +
	"google_access_token, google_refresh_token, created_at, updated_at, " +
	"(avatar IS NOT NULL AND length(avatar) > 0) AS avatar_set"

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Password: string(hash),
	}

	// The unique index on email is the sole duplicate check, so two
	// concurrent registrations cannot race past each other.
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*models.User, string, error) {
	var user models.User
	err := s.db.Select(userColumns + ", password").
		Where("email = ?", normalizeEmail(req.Email)).
		First(&user).Error
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GenerateToken issues a signed bearer token carrying the user id.
func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Select(userColumns).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserWithSecrets loads a user including Google credentials for calendar
// calls. Callers must not serialize the result.
func (s *AuthService) GetUserWithSecrets(userID uuid.UUID) (*models.User, error) {
	return s.GetUser(userID)
}

func (s *AuthService) UpdateAvatar(userID uuid.UUID, data []byte) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("avatar", data)
	if result.Error != nil {
		return fmt.Errorf("failed to store avatar: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *AuthService) GetAvatar(userID uuid.UUID) ([]byte, error) {
	var user models.User
	if err := s.db.Select("avatar").First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrAvatarNotFound
	}
	if len(user.Avatar) == 0 {
		return nil, ErrAvatarNotFound
	}
	return user.Avatar, nil
}

// SaveGoogleTokens stores OAuth credentials and enables calendar sync.
// The refresh token is only replaced when Google returned a new one.
func (s *AuthService) SaveGoogleTokens(userID uuid.UUID, accessToken, refreshToken string) error {
	updates := map[string]interface{}{
		"google_access_token":   accessToken,
		"calendar_sync_enabled": true,
	}
	if refreshToken != "" {
		updates["google_refresh_token"] = refreshToken
	}

	result := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to save google tokens: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *AuthService) DisconnectGoogle(userID uuid.UUID) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"google_access_token":   "",
		"google_refresh_token":  "",
		"calendar_sync_enabled": false,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to disconnect google: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
