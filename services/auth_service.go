package services

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"numberhunt/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

var (
	ErrInvalidUsername = precondition("invalid-username-format")
	ErrInvalidEmail    = precondition("invalid-email")
	ErrWeakPassword    = precondition("weak-password")
	ErrPasswordTooLong = precondition("password-too-long")
	ErrInvalidAvatar   = precondition("avatar-must-be-1-50-characters")
)

type AuthService struct {
	db     *gorm.DB
	tokens *TokenManager
}

func NewAuthService(db *gorm.DB, tokens *TokenManager) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
}

type Profile struct {
	User                *models.User `json:"user"`
	WinRate             float64      `json:"win_rate"`
	ImposterGames       int64        `json:"imposter_games"`
	ImposterSuccessRate float64      `json:"imposter_success_rate"`
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if !usernamePattern.MatchString(req.Username) {
		return nil, ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	// bcrypt ignores everything past 72 bytes.
	if len(req.Password) > 72 {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, dbError(err, nil)
	}

	log.Info().Uint("user", user.ID).Str("username", user.Username).Msg("user registered")
	return s.issue(&user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, dbError(err, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_active", now).Error; err != nil {
		log.Warn().Err(err).Uint("user", user.ID).Msg("failed to stamp last activity")
	}

	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, dbError(err, ErrUserNotFound)
	}

	var imposterGames int64
	if err := s.db.WithContext(ctx).Model(&models.Outcome{}).
		Where("user_id = ? AND role = ?", userID, models.RoleImposter).
		Count(&imposterGames).Error; err != nil {
		return nil, dbError(err, nil)
	}

	profile := &Profile{
		User:          &user,
		WinRate:       user.WinRate(),
		ImposterGames: imposterGames,
	}
	if imposterGames > 0 {
		profile.ImposterSuccessRate = float64(user.TotalImposterWins) / float64(imposterGames) * 100
	}
	return profile, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error) {
	updates := make(map[string]interface{})
	if req.Username != nil {
		if !usernamePattern.MatchString(*req.Username) {
			return nil, ErrInvalidUsername
		}
		updates["username"] = *req.Username
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return nil, ErrInvalidEmail
		}
		updates["email"] = *req.Email
	}
	if req.Avatar != nil {
		avatar := strings.TrimSpace(*req.Avatar)
		if n := utf8.RuneCountInString(avatar); n < 1 || n > 50 {
			return nil, ErrInvalidAvatar
		}
		updates["avatar"] = avatar
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, userID).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, dbError(err, ErrUserNotFound)
	}

	log.Info().Uint("user", userID).Int("fields", len(updates)).Msg("profile updated")
	return &user, nil
}
