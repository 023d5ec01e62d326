package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/geochrs/shophub-admin/internal/domain"
	"github.com/geochrs/shophub-admin/internal/repository"
	apperrors "github.com/geochrs/shophub-admin/pkg/errors"
)

// AdminService implements account management and admin-role promotion.
// The admin role is only ever granted by redeeming the enrollment code.
type AdminService struct {
	users     repository.UserRepository
	adminCode string
	logger    *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(users repository.UserRepository, adminCode string, logger *slog.Logger) *AdminService {
	return &AdminService{
		users:     users,
		adminCode: adminCode,
		logger:    logger,
	}
}

// RegisterUserInput holds the parameters for registering an account.
type RegisterUserInput struct {
	Email string
	Name  string
}

// RegisterUser creates a new customer account.
func (s *AdminService) RegisterUser(ctx context.Context, input *RegisterUserInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidInput("a valid email address is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(input.Name),
		Role:      domain.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// GetUser retrieves a user by its ID.
func (s *AdminService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidID(id)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// ListUsers returns all registered accounts for the admin screen.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RedeemAdminCode promotes a user to the admin role when the supplied code
// matches the configured enrollment code. Redeeming on an account that is
// already admin is a no-op.
func (s *AdminService) RedeemAdminCode(ctx context.Context, userID, code string) (*domain.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperrors.InvalidID(userID)
	}

	if code != s.adminCode {
		return nil, apperrors.InvalidInput("incorrect admin code")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for promotion: %w", err)
	}

	if user.IsAdmin() {
		return user, nil
	}

	if err := s.users.UpdateRole(ctx, userID, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("promote user: %w", err)
	}

	user.Role = domain.RoleAdmin

	s.logger.InfoContext(ctx, "user promoted to admin",
		slog.String("user_id", userID),
	)

	return user, nil
}

// RevokeAdmin demotes an admin back to the customer role. Revoking a user
// that is not an admin is a no-op.
func (s *AdminService) RevokeAdmin(ctx context.Context, userID string) (*domain.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperrors.InvalidID(userID)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for demotion: %w", err)
	}

	if !user.IsAdmin() {
		return user, nil
	}

	if err := s.users.UpdateRole(ctx, userID, domain.RoleCustomer); err != nil {
		return nil, fmt.Errorf("demote user: %w", err)
	}

	user.Role = domain.RoleCustomer

	s.logger.InfoContext(ctx, "admin role revoked",
		slog.String("user_id", userID),
	)

	return user, nil
}
