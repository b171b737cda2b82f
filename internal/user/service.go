package user

import (
	"context"
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (User, error)
	List(ctx context.Context) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Find(ctx context.Context, userID string) (*User, error)
}

var _ Service = (*service)(nil)

type service struct {
	repo Repository
}

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, params CreateParams) (User, error) {
	if params.Role == "" {
		params.Role = RoleUser
	}
	return s.repo.Create(ctx, params)
}

func (s *service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *service) Find(ctx context.Context, userID string) (*User, error) {
	return s.repo.Find(ctx, userID)
}

func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}
