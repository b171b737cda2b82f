package token

import "errors"

// Construction errors. They are returned by New only.
var (
	ErrEmptySecret   = errors.New("token: empty secret")
	ErrShortSecret   = errors.New("token: secret is shorter than 32 bytes")
	ErrInvalidConfig = errors.New("token: invalid config")
)

// Encode errors.
var (
	ErrMissingSubject = errors.New("token: missing subject")
	ErrReservedClaim  = errors.New("token: reserved claim name")
)

// Decode errors. None of them is retryable.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
)
