package token

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const algHS256 = "HS256"

var b64 = base64.RawURLEncoding

// Signer issues and verifies tokens.
type Signer interface {
	Issue(claims *Claims, typ Type) (token string, expiresAt time.Time, err error)
	Decode(token string) (*Claims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

var _ Signer = (*Codec)(nil)

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
}

// Codec is an HS256 token encoder and verifier.
type Codec struct {
	secret        []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	skew          time.Duration
	stampIssuedAt bool
	stampTokenID  bool

	encodedHeader string
	now           func() time.Time
	newID         func() (string, error)
}

type Option func(*Codec)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// WithIDGenerator replaces the random UUID generator used to stamp jti.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(c *Codec) {
		c.newID = gen
	}
}

// New validates cfg and returns a Codec. Configuration errors surface here
// and never from Encode or Decode.
func New(cfg Config, opts ...Option) (*Codec, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.normalize()

	hdr, err := json.Marshal(header{Alg: algHS256, Typ: "JWT"})
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}

	c := &Codec{
		secret:        bytes.Clone(cfg.Secret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		skew:          cfg.ClockSkew,
		stampIssuedAt: cfg.IssuedAt,
		stampTokenID:  cfg.TokenID,
		encodedHeader: b64.EncodeToString(hdr),
		now:           time.Now,
		newID:         newUUID,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	return id.String(), nil
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// Encode signs claims with the given expiry. The payload is serialized with
// sorted keys, so identical inputs yield identical tokens.
func (c *Codec) Encode(claims *Claims, expiresAt time.Time) (string, error) {
	if claims == nil || claims.Subject == "" {
		return "", ErrMissingSubject
	}

	payload := make(map[string]any, len(claims.Custom)+6)
	for name, val := range claims.Custom {
		if isRegistered(name) {
			return "", fmt.Errorf("%w: %q", ErrReservedClaim, name)
		}
		if val.Kind() == KindInvalid {
			return "", fmt.Errorf("claim %q: %w", name, errInvalidValue)
		}
		payload[name] = val
	}

	payload[ClaimSubject] = claims.Subject
	payload[ClaimExpiresAt] = expiresAt.Unix()

	if iss := firstNonEmpty(c.issuer, claims.Issuer); iss != "" {
		payload[ClaimIssuer] = iss
	}
	if aud := firstNonEmpty(c.audience, claims.Audience); aud != "" {
		payload[ClaimAudience] = aud
	}

	switch {
	case !claims.IssuedAt.IsZero():
		payload[ClaimIssuedAt] = claims.IssuedAt.Unix()
	case c.stampIssuedAt:
		payload[ClaimIssuedAt] = c.now().Unix()
	}

	switch {
	case claims.TokenID != "":
		payload[ClaimTokenID] = claims.TokenID
	case c.stampTokenID:
		id, err := c.newID()
		if err != nil {
			return "", err
		}
		payload[ClaimTokenID] = id
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	signingString := c.encodedHeader + "." + b64.EncodeToString(body)
	sig, err := c.sign(signingString)
	if err != nil {
		return "", err
	}

	return signingString + "." + sig, nil
}

// Issue encodes claims as a token of the given type, expiring after the
// configured TTL for that type.
func (c *Codec) Issue(claims *Claims, typ Type) (string, time.Time, error) {
	var ttl time.Duration
	switch typ {
	case TypeAccess:
		ttl = c.accessTTL
	case TypeRefresh:
		ttl = c.refreshTTL
	default:
		return "", time.Time{}, fmt.Errorf("issue token: unknown token type %q", typ)
	}

	if claims == nil {
		return "", time.Time{}, ErrMissingSubject
	}

	typed := claims.clone()
	typed.Set(ClaimTokenType, StringValue(string(typ)))

	expiresAt := c.now().Add(ttl).Truncate(time.Second)
	tok, err := c.Encode(typed, expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue %s token: %w", typ, err)
	}
	return tok, expiresAt, nil
}

// Decode verifies tokenString and returns its claims.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	want, err := c.sign(parts[0] + "." + parts[1])
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(parts[2])) != 1 {
		return nil, ErrInvalidSignature
	}

	if err := checkHeader(parts[0]); err != nil {
		return nil, err
	}

	claims, err := parsePayload(parts[1])
	if err != nil {
		return nil, err
	}

	if err := c.validate(claims); err != nil {
		return nil, err
	}

	return claims.Claims, nil
}

func (c *Codec) sign(signingString string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(signingString, c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return b64.EncodeToString(sig), nil
}

func (c *Codec) validate(claims *decodedClaims) error {
	now := c.now()

	if claims.ExpiresAt.IsZero() {
		return fmt.Errorf("%w: missing exp", ErrTokenExpired)
	}
	if c.expired(now, claims.ExpiresAt) {
		return fmt.Errorf("%w: expired at %s", ErrTokenExpired, claims.ExpiresAt.UTC().Format(time.RFC3339))
	}

	if !claims.notBefore.IsZero() && now.Add(c.skew).Before(claims.notBefore) {
		return fmt.Errorf("%w: token is not valid before %s", ErrInvalidClaims, claims.notBefore.UTC().Format(time.RFC3339))
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return fmt.Errorf("%w: unexpected issuer %q", ErrInvalidClaims, claims.Issuer)
	}

	if c.audience != "" {
		if !slices.Contains(claims.audiences, c.audience) {
			return fmt.Errorf("%w: audience %q not accepted", ErrInvalidClaims, claims.audiences)
		}
		claims.Audience = c.audience
	}

	if claims.Subject == "" {
		return fmt.Errorf("%w: missing sub", ErrInvalidClaims)
	}

	return nil
}

// expired reports whether exp has passed. Without skew a token dies at exp.
// With skew it lives through exp+skew inclusive.
func (c *Codec) expired(now, exp time.Time) bool {
	if c.skew == 0 {
		return !now.Before(exp)
	}
	return now.Add(-c.skew).After(exp)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
