package security

import "encoding/hex"

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}

// ShortHasher produces a deterministic digest suitable as a lookup key.
type ShortHasher interface {
	Hash(string) string
}

var _ ShortHasher = (*SHA256Hasher)(nil)

// SHA256Hasher digests values with HMAC-SHA256 under the security key.
type SHA256Hasher struct {
	securityKey string
}

// Hash returns the hex encoded keyed digest of s.
func (h *SHA256Hasher) Hash(s string) string {
	return hex.EncodeToString(SHA256Hash(s, h.securityKey))
}

func NewSHA256Hasher(key string) *SHA256Hasher {
	return &SHA256Hasher{
		securityKey: key,
	}
}
