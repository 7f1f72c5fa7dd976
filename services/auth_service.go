package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/codmarena/codm-tournaments/models"
	"github.com/codmarena/codm-tournaments/repositories"
	"github.com/codmarena/codm-tournaments/utils"
)

// AuthService authenticates staff accounts. Players never log in; team
// registration and spectating are open.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.AdminUser, string, error)
	CreateAdmin(ctx context.Context, email, password string, role models.AdminRole) (*models.AdminUser, error)
	EnsureBootstrapAdmin(ctx context.Context, email, password string) error
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	adminRepo repositories.AdminRepository
	jwtSecret []byte
	logger    *slog.Logger
}

func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret []byte, logger *slog.Logger) AuthService {
	return &authService{
		adminRepo: adminRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.AdminUser, string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := utils.GenerateJWT(s.jwtSecret, admin.ID, string(admin.Role))
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	admin.PasswordHash = ""
	return admin, token, nil
}

func (s *authService) CreateAdmin(ctx context.Context, email, password string, role models.AdminRole) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: email required and password must be at least 8 characters", ErrValidationFailed)
	}
	if role != models.RoleAdmin && role != models.RoleModerator {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidationFailed, role)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminUser{Email: email, PasswordHash: hash, Role: role}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	admin.PasswordHash = ""
	return admin, nil
}

// EnsureBootstrapAdmin creates the initial admin account on first boot so the
// moderation surface is reachable on a fresh database.
func (s *authService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.adminRepo.GetByEmail(ctx, strings.ToLower(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrAdminNotFound) {
		return err
	}
	if _, err := s.CreateAdmin(ctx, email, password, models.RoleAdmin); err != nil {
		if errors.Is(err, repositories.ErrAdminEmailConflict) {
			return nil
		}
		return err
	}
	s.logger.InfoContext(ctx, "bootstrap admin created", slog.String("email", email))
	return nil
}
