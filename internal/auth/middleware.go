package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

var ErrNotAccessToken = errors.New("not an access token")

// RequireToken admits requests carrying a valid access token in the
// Authorization header or, without the header, in the named cookie.
func RequireToken(signer token.Signer, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := security.ExtractToken(r, cookieName)
			if err != nil {
				web.RespondUnauthorized(w, err, message.TokenMissing, nil)
				return
			}

			claims, err := signer.Decode(raw)
			if err != nil {
				if errors.Is(err, token.ErrInvalidSignature) {
					slog.Warn("access token with invalid signature",
						"ip", r.RemoteAddr,
						"method", r.Method,
						"url", r.URL.Path,
					)
				}
				web.RespondUnauthorized(w, err, decodeErrorMessage(err), nil)
				return
			}

			if !token.IsAccessToken(claims) {
				web.RespondUnauthorized(w, ErrNotAccessToken, message.TokenWrongType, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole admits requests whose access token carries the given role.
// It must run after RequireToken.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := ClaimsFromContext(r.Context())
			if err != nil {
				web.RespondUnauthorized(w, err, message.Unauthorized, nil)
				return
			}

			if got := claims.String(ClaimRole); got != role {
				web.RespondForbidden(w, fmt.Errorf("role %q is not %q", got, role), message.Forbidden, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func decodeErrorMessage(err error) string {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return message.TokenExpired
	case errors.Is(err, token.ErrInvalidSignature):
		return message.TokenBadSig
	case errors.Is(err, token.ErrMalformedToken):
		return message.TokenMalformed
	case errors.Is(err, token.ErrInvalidClaims):
		return message.TokenBadClaims
	default:
		return message.Unauthorized
	}
}
