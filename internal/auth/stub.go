package auth

import (
	"context"
	"errors"

	"github.com/ferdiebergado/tokenkit/internal/user"
)

type StubService struct {
	RegisterUserFunc func(ctx context.Context, params RegisterUserParams) (user.User, error)
	LoginUserFunc    func(ctx context.Context, params LoginUserParams) (*TokenPair, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (*TokenPair, error)
	LogoutUserFunc   func(ctx context.Context, refreshToken string) error
	LogoutAllFunc    func(ctx context.Context, userID string) (int64, error)
}

var _ AuthService = (*StubService)(nil)

func (s *StubService) RegisterUser(ctx context.Context, params RegisterUserParams) (user.User, error) {
	if s.RegisterUserFunc == nil {
		return user.User{}, errors.New("RegisterUser not implemented by stub")
	}
	return s.RegisterUserFunc(ctx, params)
}

func (s *StubService) LoginUser(ctx context.Context, params LoginUserParams) (*TokenPair, error) {
	if s.LoginUserFunc == nil {
		return nil, errors.New("LoginUser not implemented by stub")
	}
	return s.LoginUserFunc(ctx, params)
}

func (s *StubService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if s.RefreshTokenFunc == nil {
		return nil, errors.New("RefreshToken not implemented by stub")
	}
	return s.RefreshTokenFunc(ctx, refreshToken)
}

func (s *StubService) LogoutUser(ctx context.Context, refreshToken string) error {
	if s.LogoutUserFunc == nil {
		return errors.New("LogoutUser not implemented by stub")
	}
	return s.LogoutUserFunc(ctx, refreshToken)
}

func (s *StubService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	if s.LogoutAllFunc == nil {
		return 0, errors.New("LogoutAll not implemented by stub")
	}
	return s.LogoutAllFunc(ctx, userID)
}
