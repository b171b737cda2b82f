package security

import (
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
)

var ErrInvalidCSRF = errors.New("invalid csrf token")

var _ web.Baker = (*CSRFCookieBaker)(nil)

// CSRFCookieBaker issues double-submit CSRF cookies signed with the security key.
type CSRFCookieBaker struct {
	name       string
	length     uint32
	expiration time.Duration
	pepper     string
}

const (
	DefaultCSRFCookieName = "csrf_token"
	DefaultCSRFHeaderName = "X-CSRF-Token"
	defaultCSRFLength     = 32
)

func NewCSRFCookieBaker(cfg *config.CSRF, securityKey string) *CSRFCookieBaker {
	c := &CSRFCookieBaker{
		name:       cfg.CookieName,
		length:     cfg.TokenLength,
		expiration: cfg.CookieMaxAge.Duration,
		pepper:     securityKey,
	}
	if c.name == "" {
		c.name = DefaultCSRFCookieName
	}
	if c.length == 0 {
		c.length = defaultCSRFLength
	}
	return c
}

func (c *CSRFCookieBaker) Bake() (*http.Cookie, error) {
	token, err := GenerateRandomBytesURLEncoded(c.length)
	if err != nil {
		return nil, fmt.Errorf("generate csrf token: %w", err)
	}

	signature := base64.RawURLEncoding.EncodeToString(SHA256Hash(token, c.pepper))

	csrfCookie := HardenedCookie(c.name, token+"."+signature, c.expiration)
	// the client script echoes the value in a header
	csrfCookie.HttpOnly = false

	return csrfCookie, nil
}

// Check verifies the signature of the provided CSRF cookie.
func (c *CSRFCookieBaker) Check(csrfCookie *http.Cookie) error {
	token, sig, found := strings.Cut(csrfCookie.Value, ".")
	if !found || token == "" {
		return fmt.Errorf("split signed token: %w", ErrInvalidCSRF)
	}

	sigBytes, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return fmt.Errorf("base64 decode signature: %w", ErrInvalidCSRF)
	}

	if !hmac.Equal(sigBytes, SHA256Hash(token, c.pepper)) {
		return fmt.Errorf("hmac compare: %w", ErrInvalidCSRF)
	}
	return nil
}
