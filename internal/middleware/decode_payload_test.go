package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ferdiebergado/tokenkit/internal/middleware"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
)

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	const login = `{"email":"juan@example.com","password":"password123"}`

	tests := []struct {
		name     string
		payload  string
		bodySize int64
		code     int
	}{
		{"login payload", login, 1 << 10, http.StatusOK},
		{"zero size falls back to the default limit", login, 0, http.StatusOK},
		{"payload over the limit", login, 8, http.StatusRequestEntityTooLarge},
		{"unknown field", `{"email":"juan@example.com","password":"password123","role":"admin"}`, 1 << 10, http.StatusUnprocessableEntity},
		{"two objects", login + login, 1 << 10, http.StatusBadRequest},
		{"number for a string", `{"email":"juan@example.com","password":12345678}`, 1 << 10, http.StatusBadRequest},
		{"truncated json", `{"email"`, 1 << 10, http.StatusBadRequest},
		{"empty body", ``, 1 << 10, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got credentials
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				params, err := web.ParamsFromContext[credentials](r.Context())
				if err != nil {
					t.Errorf("web.ParamsFromContext() = %v", err)
				}
				got = params
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.payload))
			rec := httptest.NewRecorder()
			middleware.DecodePayload[credentials](tc.bodySize)(next).ServeHTTP(rec, req)

			if gotCode, wantCode := rec.Code, tc.code; gotCode != wantCode {
				t.Errorf("rec.Code = %d, want: %d", gotCode, wantCode)
			}
			if reached != (tc.code == http.StatusOK) {
				t.Errorf("next reached = %t, want: %t", reached, tc.code == http.StatusOK)
			}
			if tc.code == http.StatusUnprocessableEntity && !strings.Contains(rec.Body.String(), `"field":"role"`) {
				t.Errorf("rec.Body = %s, want the unknown field named", rec.Body.String())
			}
			if reached && got.Email != "juan@example.com" {
				t.Errorf("params.Email = %q, want: %q", got.Email, "juan@example.com")
			}
		})
	}
}
