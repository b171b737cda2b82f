package env_test

import (
	"reflect"
	"testing"

	"github.com/ferdiebergado/tokenkit/internal/pkg/env"
)

func TestOverrideStruct(t *testing.T) {
	type jwtOpts struct {
		Issuer   string `env:"JWT_ISSUER"`
		IssuedAt bool   `env:"JWT_ISSUED_AT"`
	}

	type dbOpts struct {
		MaxOpenConns int `env:"DB_MAX_OPEN_CONNS"`
	}

	type argonOpts struct {
		Threads uint8 `env:"ARGON2_THREADS"`
	}

	type settings struct {
		Env    string `env:"ENV"`
		DB     *dbOpts
		JWT    jwtOpts
		Argon2 *argonOpts
	}

	got := settings{
		Env: "development",
		DB: &dbOpts{
			MaxOpenConns: 3,
		},
	}

	t.Setenv("ENV", "testing")
	t.Setenv("DB_MAX_OPEN_CONNS", "10")
	t.Setenv("JWT_ISSUER", "tokenkit")
	t.Setenv("JWT_ISSUED_AT", "true")
	t.Setenv("ARGON2_THREADS", "4")

	if err := env.OverrideStruct(&got); err != nil {
		t.Fatal(err)
	}

	want := settings{
		Env: "testing",
		DB: &dbOpts{
			MaxOpenConns: 10,
		},
		JWT: jwtOpts{
			Issuer:   "tokenkit",
			IssuedAt: true,
		},
		Argon2: &argonOpts{
			Threads: 4,
		},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("env.OverrideStruct(&got) = %+v, want: %+v", got, want)
	}
}

func TestOverrideStruct_Errors(t *testing.T) {
	type opts struct {
		Port int `env:"PORT"`
	}

	t.Run("Not a pointer", func(t *testing.T) {
		if err := env.OverrideStruct(opts{}); err == nil {
			t.Error("env.OverrideStruct(opts{}) = nil, want: error")
		}
	})

	t.Run("Invalid int", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		if err := env.OverrideStruct(&opts{}); err == nil {
			t.Error("env.OverrideStruct(&opts{}) = nil, want: error")
		}
	})
}

func TestEnv(t *testing.T) {
	const fallback = "example.com"

	tests := []struct {
		name, envVar, envVal, fallback, val string
	}{
		{"EnvVar is set", "HOST", "localhost", fallback, "localhost"},
		{"EnvVar is not set", "HOST", "", fallback, fallback},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envVal != "" {
				t.Setenv(tc.envVar, tc.envVal)
			}
			val := env.Env(tc.envVar, tc.fallback)

			if val != tc.val {
				t.Errorf("env.Env(%q, %q) = %q, want: %q", tc.envVar, tc.fallback, val, tc.val)
			}
		})
	}
}
