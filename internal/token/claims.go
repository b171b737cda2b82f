package token

import (
	"maps"
	"time"
)

// Registered claim names.
const (
	ClaimSubject   = "sub"
	ClaimIssuer    = "iss"
	ClaimAudience  = "aud"
	ClaimExpiresAt = "exp"
	ClaimIssuedAt  = "iat"
	ClaimTokenID   = "jti"
	ClaimNotBefore = "nbf"
)

// ClaimTokenType marks a token as an access or a refresh token.
const ClaimTokenType = "token_type"

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Claims is the decoded payload of a token. Standard claims have their own
// fields. Everything else lives in Custom.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  string
	ExpiresAt time.Time
	IssuedAt  time.Time
	TokenID   string
	Custom    map[string]Value
}

// Set stores an application claim.
func (c *Claims) Set(name string, v Value) {
	if c.Custom == nil {
		c.Custom = make(map[string]Value)
	}
	c.Custom[name] = v
}

func (c *Claims) Get(name string) (Value, bool) {
	v, ok := c.Custom[name]
	return v, ok
}

// String returns the named application claim if it holds a string.
func (c *Claims) String(name string) string {
	v, ok := c.Custom[name]
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

func (c *Claims) TokenType() Type {
	return Type(c.String(ClaimTokenType))
}

func (c *Claims) clone() *Claims {
	cp := *c
	cp.Custom = maps.Clone(c.Custom)
	return &cp
}

// IsAccessToken reports whether claims carry the access token marker.
func IsAccessToken(claims *Claims) bool {
	return claims != nil && claims.TokenType() == TypeAccess
}

// IsRefreshToken reports whether claims carry the refresh token marker.
func IsRefreshToken(claims *Claims) bool {
	return claims != nil && claims.TokenType() == TypeRefresh
}

func isRegistered(name string) bool {
	switch name {
	case ClaimSubject, ClaimIssuer, ClaimAudience, ClaimExpiresAt,
		ClaimIssuedAt, ClaimTokenID, ClaimNotBefore:
		return true
	default:
		return false
	}
}
