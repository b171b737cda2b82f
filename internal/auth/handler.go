package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

const (
	maskChar            = "*"
	defaultMaxBodyBytes = 1 << 20

	DefaultAccessCookie  = "access_token"
	DefaultRefreshCookie = "refresh_token"
)

var (
	errMissingRefreshToken = errors.New("no refresh token in request")
	errCSRFMismatch        = errors.New("csrf header does not match cookie")
)

type AuthService interface {
	RegisterUser(ctx context.Context, params RegisterUserParams) (user.User, error)
	LoginUser(ctx context.Context, params LoginUserParams) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	LogoutUser(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) (int64, error)
}

type Handler struct {
	svc          AuthService
	baker        web.Baker
	cookie       *config.Cookie
	csrf         *config.CSRF
	maxBodyBytes int64
}

func NewHandler(svc AuthService, provider *Provider) *Handler {
	h := &Handler{
		svc:          svc,
		baker:        provider.CSRFBaker,
		cookie:       &config.Cookie{},
		csrf:         &config.CSRF{},
		maxBodyBytes: defaultMaxBodyBytes,
	}

	if cfg := provider.Cfg; cfg != nil {
		if cfg.Cookie != nil {
			cookie := *cfg.Cookie
			h.cookie = &cookie
		}
		if cfg.CSRF != nil {
			csrf := *cfg.CSRF
			h.csrf = &csrf
		}
		if cfg.Server != nil && cfg.Server.MaxBodyBytes > 0 {
			h.maxBodyBytes = cfg.Server.MaxBodyBytes
		}
	}

	// an empty name makes http.SetCookie drop the cookie
	if h.cookie.AccessName == "" {
		h.cookie.AccessName = DefaultAccessCookie
	}
	if h.cookie.RefreshName == "" {
		h.cookie.RefreshName = DefaultRefreshCookie
	}
	if h.csrf.CookieName == "" {
		h.csrf.CookieName = security.DefaultCSRFCookieName
	}
	if h.csrf.HeaderName == "" {
		h.csrf.HeaderName = security.DefaultCSRFHeaderName
	}
	return h
}

type RegisterUserRequest struct {
	Email           string `json:"email,omitempty" validate:"required,email"`
	Password        string `json:"password,omitempty" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (r *RegisterUserRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
		slog.String("password_confirm", maskChar),
	)
}

type RegisterUserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[RegisterUserRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	u, err := h.svc.RegisterUser(r.Context(), RegisterUserParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			web.RespondConflict(w, err, message.DuplicateEmail, nil)
			return
		}
		web.RespondServerError(w, err)
		return
	}

	msg := message.RegisterSuccess
	data := &RegisterUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	web.OK(w, http.StatusCreated, &msg, data)
}

type UserLoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email"`
	Password string `json:"password,omitempty" validate:"required"`
}

func (r *UserLoginRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

// LoginUser answers with the token pair. Both tokens are also set as hardened
// cookies. Browsers get the refresh token only as a cookie.
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[UserLoginRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	pair, err := h.svc.LoginUser(r.Context(), LoginUserParams(req))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			web.RespondUnauthorized(w, err, message.InvalidUser, nil)
			return
		}
		web.RespondServerError(w, err)
		return
	}

	h.respondWithPair(w, r, message.LoginSuccess, pair)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) LogValue() slog.Value {
	return slog.GroupValue(slog.String("refresh_token", maskChar))
}

// RefreshToken rotates the refresh token taken from the cookie, which needs a
// matching CSRF header, or from the JSON body.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshTokenFrom(w, r)
	if !ok {
		return
	}

	pair, err := h.svc.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrRefreshTokenReused):
			h.clearSessionCookies(w)
			web.RespondUnauthorized(w, err, message.RefreshReused, nil)
		case errors.Is(err, ErrInvalidRefreshToken):
			web.RespondUnauthorized(w, err, message.RefreshInvalid, nil)
		default:
			web.RespondServerError(w, err)
		}
		return
	}

	h.respondWithPair(w, r, message.RefreshSuccess, pair)
}

func (h *Handler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshTokenFrom(w, r)
	if !ok {
		return
	}

	if err := h.svc.LogoutUser(r.Context(), refreshToken); err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			web.RespondUnauthorized(w, err, message.RefreshInvalid, nil)
			return
		}
		web.RespondServerError(w, err)
		return
	}

	h.clearSessionCookies(w)
	msg := message.LogoutSuccess
	web.OK[struct{}](w, http.StatusOK, &msg, nil)
}

type LogoutAllResponse struct {
	Revoked int64 `json:"revoked"`
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, err := UserFromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.Unauthorized, nil)
		return
	}

	n, err := h.svc.LogoutAll(r.Context(), userID)
	if err != nil {
		web.RespondServerError(w, err)
		return
	}

	h.clearSessionCookies(w)
	msg := message.LogoutAllSuccess
	web.OK(w, http.StatusOK, &msg, &LogoutAllResponse{Revoked: n})
}

func (h *Handler) respondWithPair(w http.ResponseWriter, r *http.Request, msg string, pair *TokenPair) {
	csrfCookie, err := h.baker.Bake()
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	accessTTL := time.Duration(pair.ExpiresIn) * time.Second
	http.SetCookie(w, security.HardenedCookie(h.cookie.AccessName, pair.AccessToken, accessTTL))
	http.SetCookie(w, security.HardenedCookie(h.cookie.RefreshName, pair.RefreshToken, time.Until(pair.RefreshExpiresAt)))
	http.SetCookie(w, csrfCookie)

	body := *pair
	if web.IsBrowser(r) {
		body.RefreshToken = ""
	}
	web.OK(w, http.StatusOK, &msg, &body)
}

func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, security.ExpiredCookie(h.cookie.AccessName))
	http.SetCookie(w, security.ExpiredCookie(h.cookie.RefreshName))
	http.SetCookie(w, security.ExpiredCookie(h.csrf.CookieName))
}

// refreshTokenFrom writes the error response itself and reports false when
// the request carries no usable refresh token.
func (h *Handler) refreshTokenFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	if c, err := r.Cookie(h.cookie.RefreshName); err == nil && c.Value != "" {
		if err := h.checkCSRF(r); err != nil {
			web.RespondForbidden(w, err, message.CSRFInvalid, nil)
			return "", false
		}
		return c.Value, true
	}

	var req RefreshTokenRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.RespondUnauthorized(w, fmt.Errorf("%w: %w", errMissingRefreshToken, err), message.RefreshInvalid, nil)
		return "", false
	}
	if req.RefreshToken == "" {
		web.RespondUnauthorized(w, errMissingRefreshToken, message.RefreshInvalid, nil)
		return "", false
	}
	return req.RefreshToken, true
}

func (h *Handler) checkCSRF(r *http.Request) error {
	csrfCookie, err := r.Cookie(h.csrf.CookieName)
	if err != nil {
		return fmt.Errorf("read csrf cookie: %w", security.ErrInvalidCSRF)
	}

	sent := r.Header.Get(h.csrf.HeaderName)
	if subtle.ConstantTimeCompare([]byte(csrfCookie.Value), []byte(sent)) != 1 {
		return fmt.Errorf("%w: %w", security.ErrInvalidCSRF, errCSRFMismatch)
	}

	return h.baker.Check(csrfCookie)
}
