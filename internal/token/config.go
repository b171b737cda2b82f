package token

import (
	"fmt"
	"time"
)

const (
	MinSecretLength   = 32
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Config is fixed for the lifetime of a Codec.
type Config struct {
	Secret []byte

	// Issuer and Audience are stamped on every token and, when non-empty,
	// required on every decoded token.
	Issuer   string
	Audience string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ClockSkew  time.Duration

	// IssuedAt stamps iat with the current time when the caller left it unset.
	IssuedAt bool
	// TokenID stamps jti with a random UUID when the caller left it unset.
	TokenID bool
}

func (c *Config) validate() error {
	if len(c.Secret) == 0 {
		return ErrEmptySecret
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("%w: got %d bytes", ErrShortSecret, len(c.Secret))
	}
	if c.AccessTTL < 0 || c.RefreshTTL < 0 {
		return fmt.Errorf("%w: ttl must not be negative", ErrInvalidConfig)
	}
	if c.ClockSkew < 0 {
		return fmt.Errorf("%w: clock skew must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) normalize() {
	if c.AccessTTL == 0 {
		c.AccessTTL = DefaultAccessTTL
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = DefaultRefreshTTL
	}
}
