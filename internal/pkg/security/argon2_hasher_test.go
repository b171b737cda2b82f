package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
)

func newTestArgon2Hasher() *security.Argon2Hasher {
	opts := &config.Argon2{
		Memory:     8 * 1024,
		Iterations: 1,
		Threads:    1,
		SaltLength: 16,
		KeyLength:  32,
	}
	return security.NewArgon2Hasher(opts, "paminta")
}

func TestArgon2Hasher_Hash(t *testing.T) {
	t.Parallel()

	hashed, err := newTestArgon2Hasher().Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(hashed, "$")
	gotLen, wantLen := len(parts), 6
	if gotLen != wantLen {
		t.Errorf("len(parts) = %d, want: %d", gotLen, wantLen)
	}

	gotHasher, wantHasher := parts[1], "argon2id"
	if gotHasher != wantHasher {
		t.Errorf("parts[1] = %q, want: %q", gotHasher, wantHasher)
	}
}

func TestArgon2Hasher_Verify(t *testing.T) {
	t.Parallel()

	hasher := newTestArgon2Hasher()
	hashed, err := hasher.Hash("rice")
	if err != nil {
		t.Fatal(err)
	}

	matches, err := hasher.Verify("rice", hashed)
	if err != nil {
		t.Fatal(err)
	}
	if !matches {
		t.Errorf("hasher.Verify(%q) = %v, want: %v", "rice", matches, true)
	}

	matches, err = hasher.Verify("garlic", hashed)
	if err != nil {
		t.Fatal(err)
	}
	if matches {
		t.Errorf("hasher.Verify(%q) = %v, want: %v", "garlic", matches, false)
	}
}

func TestArgon2Hasher_VerifyInvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := newTestArgon2Hasher().Verify("rice", "$bcrypt$whatever")
	if !errors.Is(err, security.ErrInvalidHash) {
		t.Errorf("hasher.Verify() error = %v, want: %v", err, security.ErrInvalidHash)
	}
}
