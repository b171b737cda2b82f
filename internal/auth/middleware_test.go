package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/auth"
	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

const accessCookie = "access_token"

func TestMiddleware_RequireToken(t *testing.T) {
	t.Parallel()

	issue := func(t *testing.T, f *fixture, typ token.Type, role string) string {
		t.Helper()
		claims := &token.Claims{Subject: testUserID}
		claims.Set(auth.ClaimRole, token.StringValue(role))
		tok, _, err := f.codec.Issue(claims, typ)
		if err != nil {
			t.Fatalf("codec.Issue() = %v", err)
		}
		return tok
	}

	tests := []struct {
		name    string
		prepare func(t *testing.T, f *fixture, req *http.Request)
		code    int
		msg     string
	}{
		{
			name: "Valid bearer token",
			prepare: func(t *testing.T, f *fixture, req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+issue(t, f, token.TypeAccess, user.RoleUser))
			},
			code: http.StatusOK,
		},
		{
			name: "Valid cookie token",
			prepare: func(t *testing.T, f *fixture, req *http.Request) {
				req.AddCookie(&http.Cookie{Name: accessCookie, Value: issue(t, f, token.TypeAccess, user.RoleUser)})
			},
			code: http.StatusOK,
		},
		{
			name:    "No token",
			prepare: func(*testing.T, *fixture, *http.Request) {},
			code:    http.StatusUnauthorized,
			msg:     message.TokenMissing,
		},
		{
			name: "Basic auth header",
			prepare: func(_ *testing.T, _ *fixture, req *http.Request) {
				req.SetBasicAuth("juan", "secret")
			},
			code: http.StatusUnauthorized,
			msg:  message.TokenMissing,
		},
		{
			name: "Refresh token",
			prepare: func(t *testing.T, f *fixture, req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+issue(t, f, token.TypeRefresh, user.RoleUser))
			},
			code: http.StatusUnauthorized,
			msg:  message.TokenWrongType,
		},
		{
			name: "Expired token",
			prepare: func(t *testing.T, f *fixture, req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+issue(t, f, token.TypeAccess, user.RoleUser))
				f.clock.Advance(token.DefaultAccessTTL + time.Second)
			},
			code: http.StatusUnauthorized,
			msg:  message.TokenExpired,
		},
		{
			name: "Bad signature",
			prepare: func(t *testing.T, f *fixture, req *http.Request) {
				tok := issue(t, f, token.TypeAccess, user.RoleUser)
				last := "A"
				if tok[len(tok)-1] == 'A' {
					last = "B"
				}
				req.Header.Set("Authorization", "Bearer "+tok[:len(tok)-1]+last)
			},
			code: http.StatusUnauthorized,
			msg:  message.TokenBadSig,
		},
		{
			name: "Malformed token",
			prepare: func(_ *testing.T, _ *fixture, req *http.Request) {
				req.Header.Set("Authorization", "Bearer abc.def")
			},
			code: http.StatusUnauthorized,
			msg:  message.TokenMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)

			var gotClaims *token.Claims
			var gotUserID string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotClaims, _ = auth.ClaimsFromContext(r.Context())
				gotUserID, _ = auth.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", http.NoBody)
			tt.prepare(t, f, req)
			rec := httptest.NewRecorder()

			auth.RequireToken(f.codec, accessCookie)(handler).ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("rec.Code = %d, want: %d", rec.Code, tt.code)
			}

			if tt.code == http.StatusOK {
				if gotClaims == nil || gotUserID != testUserID {
					t.Errorf("claims = %+v, userID = %q, want claims for %q", gotClaims, gotUserID, testUserID)
				}
				return
			}

			var body web.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Message != tt.msg {
				t.Errorf("body.Message = %q, want: %q", body.Message, tt.msg)
			}
		})
	}
}

func TestMiddleware_RequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role string
		code int
	}{
		{"Admin", user.RoleAdmin, http.StatusOK},
		{"Regular user", user.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			claims := &token.Claims{Subject: testUserID}
			claims.Set(auth.ClaimRole, token.StringValue(tt.role))
			tok, _, err := f.codec.Issue(claims, token.TypeAccess)
			if err != nil {
				t.Fatalf("codec.Issue() = %v", err)
			}

			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			mw := auth.RequireToken(f.codec, accessCookie)(auth.RequireRole(user.RoleAdmin)(handler))

			req := httptest.NewRequest(http.MethodGet, "/users", http.NoBody)
			req.Header.Set("Authorization", "Bearer "+tok)
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Errorf("rec.Code = %d, want: %d", rec.Code, tt.code)
			}
		})
	}

	t.Run("Without RequireToken", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		rec := httptest.NewRecorder()
		auth.RequireRole(user.RoleAdmin)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", http.NoBody))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("rec.Code = %d, want: %d", rec.Code, http.StatusUnauthorized)
		}
	})
}
