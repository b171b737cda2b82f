// Package security holds the cryptographic helpers used by the HTTP layer:
// password hashing, keyed digests, cookies and bearer token extraction.
package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingAuthHeader = errors.New("missing Authorization header")
	ErrMissingBearer     = errors.New("missing Bearer prefix")
	ErrNoToken           = errors.New("no token in request")
)

func GenerateRandomBytes(length uint32) ([]byte, error) {
	key := make([]byte, length)

	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}

	return key, nil
}

func GenerateRandomBytesURLEncoded(length uint32) (string, error) {
	key, err := GenerateRandomBytes(length)
	if err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(key), nil
}

// SHA256Hash returns the HMAC-SHA256 of plain keyed with key.
func SHA256Hash(plain, key string) []byte {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(plain))
	return h.Sum(nil)
}

func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingBearer
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// ExtractToken reads the bearer token from the Authorization header and falls
// back to the named cookie when the header is absent.
func ExtractToken(r *http.Request, cookieName string) (string, error) {
	token, err := ExtractBearerToken(r)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrMissingAuthHeader) || cookieName == "" {
		return "", err
	}

	cookie, cookieErr := r.Cookie(cookieName)
	if cookieErr != nil || cookie.Value == "" {
		return "", ErrNoToken
	}
	return cookie.Value, nil
}
