package users

import (
	"context"
	"fmt"

	"github.com/stockpilot/stockpilot/internal/platform/httpx"
	"github.com/stockpilot/stockpilot/internal/rbac"
)

// Service wraps user administration rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, fmt.Errorf("%w: invalid id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// UpdateRole changes an account's role. Role changes apply to new
// sessions; existing tokens keep the role they were issued with.
func (s *Service) UpdateRole(ctx context.Context, id int64, role string, actorID int64) (User, error) {
	if !rbac.ValidRole(rbac.Role(role)) {
		return User{}, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, role)
	}
	if id == actorID {
		return User{}, fmt.Errorf("%w: cannot change own role", httpx.ErrValidation)
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, id)
}

// SetActive enables or disables an account without removing its history.
func (s *Service) SetActive(ctx context.Context, id int64, active bool, actorID int64) (User, error) {
	if id == actorID {
		return User{}, fmt.Errorf("%w: cannot deactivate own account", httpx.ErrValidation)
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes an account. Self-deletion is rejected so an admin
// cannot lock everyone out by accident.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", httpx.ErrValidation)
	}
	if id == actorID {
		return fmt.Errorf("%w: cannot delete own account", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
