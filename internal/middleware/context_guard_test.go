package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/middleware"
)

func TestContextGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ctx     func(t *testing.T) context.Context
		code    int
		reached bool
	}{
		{
			name:    "live request reaches the handler",
			ctx:     func(t *testing.T) context.Context { t.Helper(); return context.Background() },
			code:    http.StatusOK,
			reached: true,
		},
		{
			name: "client went away",
			ctx: func(t *testing.T) context.Context {
				t.Helper()
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			code: http.StatusRequestTimeout,
		},
		{
			name: "deadline already passed",
			ctx: func(t *testing.T) context.Context {
				t.Helper()
				ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
				t.Cleanup(cancel)
				return ctx
			},
			code: http.StatusRequestTimeout,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequestWithContext(tc.ctx(t), http.MethodPost, "/auth/refresh", http.NoBody)
			rec := httptest.NewRecorder()
			middleware.ContextGuard(next).ServeHTTP(rec, req)

			if got, want := rec.Code, tc.code; got != want {
				t.Errorf("rec.Code = %d, want: %d", got, want)
			}
			if reached != tc.reached {
				t.Errorf("next reached = %t, want: %t", reached, tc.reached)
			}
		})
	}
}
