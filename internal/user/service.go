// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/store-ratings/internal/auth"
	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
)

// Service owns user accounts. It serves both the auth package, through
// the auth.UserProvider methods, and the admin user directory.
type Service struct {
	repo Repository
}

var _ auth.UserProvider = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	return s.info(s.repo.GetByID(ctx, id))
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	return s.info(s.repo.GetByEmail(ctx, normalizeEmail(email)))
}

// Create registers a self-service account. Self-registration can only
// ever produce the user role.
func (s *Service) Create(ctx context.Context, in auth.NewUser) (*auth.UserInfo, error) {
	return s.info(s.insert(ctx, in.Name, in.Email, in.Address, in.PasswordHash, authz.RoleUser))
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// CreateUser provisions an account with an explicit role. Roles are
// fixed for the life of the account.
func (s *Service) CreateUser(
	ctx context.Context,
	actor authz.Identity,
	req CreateUserRequest,
) (*User, error) {
	if err := authz.Authorize(actor, authz.ActionCreateUser, ""); err != nil {
		return nil, err
	}
	if !authz.IsValidRole(req.Role) {
		return nil, fmt.Errorf("role %q: %w", req.Role, core.ErrInvalidInput)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.insert(ctx, req.Name, req.Email, req.Address, hash, req.Role)
}

func (s *Service) ListUsers(
	ctx context.Context,
	actor authz.Identity,
	filter Filter,
) ([]User, int, error) {
	if err := authz.Authorize(actor, authz.ActionListUsers, ""); err != nil {
		return nil, 0, err
	}
	if filter.Role != "" && !authz.IsValidRole(filter.Role) {
		return nil, 0, fmt.Errorf("role filter %q: %w", filter.Role, core.ErrInvalidInput)
	}
	return s.repo.List(ctx, filter)
}

// GetUser loads a user without an access check; callers gate it.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetMe(ctx context.Context, actor authz.Identity) (*User, error) {
	if actor.IsZero() {
		return nil, core.ErrUnauthorized
	}
	return s.repo.GetByID(ctx, actor.ID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) insert(
	ctx context.Context,
	name, email, address, passwordHash, role string,
) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		Address:      strings.TrimSpace(address),
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) info(u *User, err error) (*auth.UserInfo, error) {
	if err != nil {
		return nil, err
	}
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Address:      u.Address,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
