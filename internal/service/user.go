package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const minPasswordLength = 8

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ValidatePassword rejects short, all-digit and personal-data passwords
func ValidatePassword(password, username, email string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return newValidationError("password", fmt.Sprintf("password must contain at least %d characters", minPasswordLength))
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return newValidationError("password", "password must not be entirely numeric")
	}
	lower := strings.ToLower(password)
	if lower == strings.ToLower(username) || lower == strings.ToLower(email) {
		return newValidationError("password", "password is too similar to the username or email")
	}
	return nil
}

// SignUp registers a user with a bcrypt password hash
func (s *UserService) SignUp(ctx context.Context, req *types.SignUpRequest) (*types.User, error) {
	if err := ValidatePassword(req.Password, req.Username, req.Email); err != nil {
		return nil, err
	}

	// login matches emails case-insensitively, so store and compare them lowercased
	email := strings.ToLower(strings.TrimSpace(req.Email))

	db := s.db.WithContext(ctx)
	for _, unique := range []struct{ field, column, value string }{
		{"username", "username", req.Username},
		{"email", "LOWER(email)", email},
	} {
		var count int64
		if err := db.Model(&models.User{}).Where(unique.column+" = ?", unique.value).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", unique.field, err)
		}
		if count > 0 {
			return nil, newValidationError(unique.field, fmt.Sprintf("a user with that %s already exists", unique.field))
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newConflict("a user with that username or email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logging.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	out := toUser(user, false)
	return &out, nil
}

// ListUsers returns all users ordered by id, flagged relative to the viewer
func (s *UserService) ListUsers(ctx context.Context, viewerID uint) ([]types.User, error) {
	db := s.db.WithContext(ctx)

	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := subscribedAuthors(db, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	out := make([]types.User, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u, subscribed[u.ID]))
	}
	return out, nil
}

func (s *UserService) GetUser(ctx context.Context, id, viewerID uint) (*types.User, error) {
	db := s.db.WithContext(ctx)

	user, err := s.find(db, id)
	if err != nil {
		return nil, err
	}
	subscribed, err := subscribedAuthors(db, viewerID, []uint{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	out := toUser(*user, subscribed[id])
	return &out, nil
}

// SetPassword replaces the password after checking the current one
func (s *UserService) SetPassword(ctx context.Context, userID uint, req *types.SetPasswordRequest) error {
	db := s.db.WithContext(ctx)

	user, err := s.find(db, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return newValidationError("current_password", "current password is incorrect")
	}
	if err := ValidatePassword(req.NewPassword, user.Username, user.Email); err != nil {
		return &ValidationError{Field: "new_password", Message: err.(*ValidationError).Message}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logging.Info().Uint("user_id", userID).Msg("password changed")
	return nil
}

func (s *UserService) find(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
