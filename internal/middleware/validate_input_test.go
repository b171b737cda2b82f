package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ferdiebergado/tokenkit/internal/middleware"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/platform/validation"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidateInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  any
		code    int
		reached bool
		body    string
	}{
		{
			name:    "valid credentials",
			params:  credentials{Email: "juan@example.com", Password: "password123"},
			code:    http.StatusOK,
			reached: true,
		},
		{
			name:   "bad email and short password",
			params: credentials{Email: "juan.example.com", Password: "short"},
			code:   http.StatusUnprocessableEntity,
			body: `{"message":"Invalid input.","errors":{` +
				`"email":"email must be a valid email address",` +
				`"password":"password must be at least 8 characters long"}}`,
		},
		{
			name:   "missing fields",
			params: credentials{},
			code:   http.StatusUnprocessableEntity,
			body:   `{"message":"Invalid input.","errors":{"email":"email is required","password":"password is required"}}`,
		},
		{
			name:   "params of another type",
			params: struct{ Token string }{"abc"},
			code:   http.StatusBadRequest,
			body:   `{"message":"Invalid input."}`,
		},
	}

	validator := validation.NewGoPlaygroundValidator()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})

			ctx := web.NewContextWithParams(context.Background(), tc.params)
			req := httptest.NewRequestWithContext(ctx, http.MethodPost, "/auth/login", http.NoBody)
			rec := httptest.NewRecorder()
			middleware.ValidateInput[credentials](validator)(next).ServeHTTP(rec, req)

			if got, want := rec.Code, tc.code; got != want {
				t.Errorf("rec.Code = %d, want: %d", got, want)
			}
			if reached != tc.reached {
				t.Errorf("next reached = %t, want: %t", reached, tc.reached)
			}
			if tc.body == "" {
				return
			}
			if got := strings.TrimSuffix(rec.Body.String(), "\n"); got != tc.body {
				t.Errorf("rec.Body.String() = %q, want: %q", got, tc.body)
			}
		})
	}
}

func TestValidateInput_UsesValidator(t *testing.T) {
	t.Parallel()

	var validated any
	stub := validation.Func(func(s any) map[string]string {
		validated = s
		return nil
	})

	params := credentials{Email: "juan@example.com", Password: "password123"}
	ctx := web.NewContextWithParams(context.Background(), params)
	req := httptest.NewRequestWithContext(ctx, http.MethodPost, "/auth/login", http.NoBody)
	rec := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	middleware.ValidateInput[credentials](stub)(next).ServeHTTP(rec, req)

	if got, ok := validated.(credentials); !ok || got != params {
		t.Errorf("validated = %#v, want: %#v", validated, params)
	}
}
