package services

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/apperrors"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/utils"
)

// DefaultRole is assigned when signup does not specify one.
const DefaultRole = "Doctor"

// UserService handles account creation and credential checks against the
// users table.
type UserService struct {
	db         *gorm.DB
	jwtService *JWTService
}

func NewUserService(db *gorm.DB, jwtService *JWTService) *UserService {
	return &UserService{db: db, jwtService: jwtService}
}

// Signup creates an account. A duplicate email is a validation error.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) error {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return apperrors.Validation("User already exists", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Dependency("failed to check existing user", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperrors.Validation("failed to process password", err)
	}

	role := req.Role
	if role == "" {
		role = DefaultRole
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err, "email", req.Email)
		return apperrors.Dependency("failed to create user", err)
	}

	slog.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// bad password are reported distinctly (404 vs 401), matching the API
// contract the frontend relies on.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("Login attempt with non-existent email", "email", req.Email)
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Dependency("failed to load user", err)
	}

	if err := utils.CheckPassword(user.PasswordHash, req.Password); err != nil {
		slog.Warn("Invalid password attempt", "email", req.Email, "user_id", user.ID)
		return nil, apperrors.Auth("Incorrect password", nil)
	}

	token, err := s.jwtService.GenerateToken(user.Email, user.Name, user.Role)
	if err != nil {
		return nil, apperrors.Dependency("failed to generate token", err)
	}

	slog.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return &models.LoginResponse{
		Token: token,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}
