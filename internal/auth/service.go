package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/refresh"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

// ClaimRole carries the user's role in access tokens.
const ClaimRole = "role"

const (
	tokenTypeBearer    = "Bearer"
	defaultMaxAttempts = 3
)

var (
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenReused  = errors.New("refresh token reused")
)

var _ AuthService = (*Service)(nil)

type Service struct {
	userSvc     user.Service
	hasher      security.Hasher
	digester    security.ShortHasher
	signer      token.Signer
	store       refresh.Store
	txMgr       db.TxManager
	maxAttempts int
	newTokenID  func() string
}

type ServiceOption func(*Service)

// WithTokenIDFunc replaces the generator of refresh token IDs.
func WithTokenIDFunc(fn func() string) ServiceOption {
	return func(s *Service) {
		s.newTokenID = fn
	}
}

func NewService(provider *Provider, opts ...ServiceOption) *Service {
	maxAttempts := defaultMaxAttempts
	if provider.Cfg != nil && provider.Cfg.Refresh != nil && provider.Cfg.Refresh.MaxAttempts > 0 {
		maxAttempts = provider.Cfg.Refresh.MaxAttempts
	}

	s := &Service{
		userSvc:     provider.UserSvc,
		hasher:      provider.Hasher,
		digester:    provider.Digester,
		signer:      provider.Signer,
		store:       provider.Store,
		txMgr:       provider.TxMgr,
		maxAttempts: maxAttempts,
		newTokenID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TokenPair is what a successful login or refresh returns to the client.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token,omitempty"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int64     `json:"expires_in"`
	RefreshExpiresAt time.Time `json:"-"`
}

type RegisterUserParams struct {
	Email    string
	Password string
}

func (p *RegisterUserParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

type LoginUserParams struct {
	Email    string
	Password string
}

func (p *LoginUserParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

func (s *Service) RegisterUser(ctx context.Context, params RegisterUserParams) (user.User, error) {
	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.userSvc.Create(ctx, user.CreateParams{
		Email:        params.Email,
		PasswordHash: hash,
		Role:         user.RoleUser,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return user.User{}, ErrUserExists
		}
		return user.User{}, fmt.Errorf("create user %s: %w", params.Email, err)
	}

	return u, nil
}

func (s *Service) LoginUser(ctx context.Context, params LoginUserParams) (*TokenPair, error) {
	u, err := s.userSvc.FindByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	ok, err := s.hasher.Verify(params.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, u)
}

// RefreshToken rotates a refresh token. The presented token is consumed and a
// new pair is issued in the same transaction. Presenting a token that was
// already consumed or revoked revokes every refresh token of its owner.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.decodeRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	var pair *TokenPair
	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		rec, err := s.store.Consume(txCtx, s.digester.Hash(refreshToken))
		if err != nil {
			return err
		}

		if rec.OwnerID != claims.Subject {
			return fmt.Errorf("%w: owner mismatch", ErrInvalidRefreshToken)
		}

		u, err := s.userSvc.Find(txCtx, claims.Subject)
		if err != nil {
			return fmt.Errorf("find user %s: %w", claims.Subject, err)
		}

		pair, err = s.issuePair(txCtx, u)
		return err
	})

	switch {
	case err == nil:
		return pair, nil
	case errors.Is(err, refresh.ErrRevoked):
		n, revokeErr := s.store.RevokeOwner(ctx, claims.Subject)
		if revokeErr != nil {
			return nil, fmt.Errorf("revoke tokens of %s after reuse: %w", claims.Subject, revokeErr)
		}
		slog.Warn("refresh token reuse detected", "user_id", claims.Subject, "revoked", n)
		return nil, ErrRefreshTokenReused
	case errors.Is(err, refresh.ErrNotFound), errors.Is(err, refresh.ErrExpired), errors.Is(err, user.ErrNotFound):
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	case errors.Is(err, ErrInvalidRefreshToken):
		return nil, err
	default:
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
}

// LogoutUser revokes the presented refresh token. Unknown and expired tokens
// are already unusable and are ignored.
func (s *Service) LogoutUser(ctx context.Context, refreshToken string) error {
	if _, err := s.decodeRefresh(refreshToken); err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return nil
		}
		return err
	}

	if err := s.store.Revoke(ctx, s.digester.Hash(refreshToken)); err != nil && !errors.Is(err, refresh.ErrNotFound) {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// LogoutAll revokes every refresh token of the user.
func (s *Service) LogoutAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.RevokeOwner(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens of %s: %w", userID, err)
	}
	return n, nil
}

func (s *Service) decodeRefresh(refreshToken string) (*token.Claims, error) {
	claims, err := s.signer.Decode(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	if !token.IsRefreshToken(claims) {
		return nil, fmt.Errorf("%w: not a refresh token", ErrInvalidRefreshToken)
	}
	return claims, nil
}

func (s *Service) issuePair(ctx context.Context, u *user.User) (*TokenPair, error) {
	access := &token.Claims{Subject: u.ID}
	access.Set(ClaimRole, token.StringValue(u.Role))

	accessToken, _, err := s.signer.Issue(access, token.TypeAccess)
	if err != nil {
		return nil, fmt.Errorf("issue access token for %s: %w", u.ID, err)
	}

	refreshToken, refreshExp, err := s.issueRefresh(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        tokenTypeBearer,
		ExpiresIn:        int64(s.signer.AccessTTL().Seconds()),
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *Service) issueRefresh(ctx context.Context, userID string) (string, time.Time, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		claims := &token.Claims{Subject: userID, TokenID: s.newTokenID()}

		tok, exp, err := s.signer.Issue(claims, token.TypeRefresh)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("issue refresh token for %s: %w", userID, err)
		}

		err = s.store.Insert(ctx, s.digester.Hash(tok), userID, exp)
		if err == nil {
			return tok, exp, nil
		}
		if !errors.Is(err, refresh.ErrDuplicate) {
			return "", time.Time{}, fmt.Errorf("store refresh token: %w", err)
		}
		slog.Warn("refresh token collision, retrying", "attempt", attempt)
	}

	return "", time.Time{}, fmt.Errorf("store refresh token after %d attempts: %w", s.maxAttempts, refresh.ErrDuplicate)
}
