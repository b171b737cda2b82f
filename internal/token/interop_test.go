package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ferdiebergado/tokenkit/internal/token"
)

func keyFunc(_ *jwt.Token) (any, error) {
	return []byte(testSecret), nil
}

func TestInterop_CodecTokenParsedByJWTLibrary(t *testing.T) {
	t.Parallel()

	c := newCodec(t, token.Config{Issuer: "tokenkit", Audience: "web", IssuedAt: true, TokenID: true})

	claims := &token.Claims{Subject: "42"}
	claims.Set("role", token.StringValue("Admin"))

	tok, _, err := c.Issue(claims, token.TypeAccess)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwt.Parse(tok, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("tokenkit"),
		jwt.WithAudience("web"),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		t.Fatalf("jwt.Parse() error = %v", err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("parsed.Claims = %T, want: jwt.MapClaims", parsed.Claims)
	}

	sub, err := mc.GetSubject()
	if err != nil || sub != "42" {
		t.Errorf("mc.GetSubject() = %q, %v, want: %q", sub, err, "42")
	}
	if got, want := mc["role"], "Admin"; got != want {
		t.Errorf("mc[%q] = %v, want: %v", "role", got, want)
	}
	if got, want := mc[token.ClaimTokenType], string(token.TypeAccess); got != want {
		t.Errorf("mc[%q] = %v, want: %v", token.ClaimTokenType, got, want)
	}
	if jti, _ := mc[token.ClaimTokenID].(string); jti == "" {
		t.Error("jti was not stamped")
	}
}

func TestInterop_JWTLibraryTokenDecodedByCodec(t *testing.T) {
	t.Parallel()

	c := newCodec(t, token.Config{Issuer: "tokenkit", Audience: "web"})

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	lib := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "42",
		"iss":   "tokenkit",
		"aud":   []string{"web", "mobile"},
		"exp":   jwt.NewNumericDate(exp),
		"iat":   jwt.NewNumericDate(time.Now()),
		"role":  "Admin",
		"level": 3,
		"mfa":   true,
	})

	signed, err := lib.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Decode(signed)
	if err != nil {
		t.Fatalf("c.Decode() error = %v", err)
	}

	if got.Subject != "42" {
		t.Errorf("got.Subject = %q, want: %q", got.Subject, "42")
	}
	if !got.ExpiresAt.Equal(exp) {
		t.Errorf("got.ExpiresAt = %v, want: %v", got.ExpiresAt, exp)
	}
	if n, ok := got.Custom["level"].AsInt(); !ok || n != 3 {
		t.Errorf("level = %d, %v, want: 3, true", n, ok)
	}
	if b, ok := got.Custom["mfa"].AsBool(); !ok || !b {
		t.Errorf("mfa = %v, %v, want: true, true", b, ok)
	}
}

func TestInterop_JWTLibraryTokenWithoutExp(t *testing.T) {
	t.Parallel()

	c := newCodec(t, token.Config{})

	lib := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"})
	signed, err := lib.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Decode(signed); !errors.Is(err, token.ErrTokenExpired) {
		t.Errorf("c.Decode() error = %v, want: %v", err, token.ErrTokenExpired)
	}
}

func TestInterop_OtherAlgorithmRejected(t *testing.T) {
	t.Parallel()

	c := newCodec(t, token.Config{})

	lib := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := lib.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Decode(signed)
	if !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("c.Decode() error = %v, want: %v", err, token.ErrInvalidSignature)
	}
}
