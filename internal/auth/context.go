package auth

import (
	"context"
	"errors"

	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

type ctxKey int

const claimsCtxKey ctxKey = iota + 1

var ErrNoClaimsInContext = errors.New("no token claims in context")

// ContextWithClaims stores verified access token claims and the user they belong to.
//
//nolint:ireturn // returning context.Context is intentional: it's the standard context type
func ContextWithClaims(baseCtx context.Context, claims *token.Claims) context.Context {
	ctx := context.WithValue(baseCtx, claimsCtxKey, claims)
	return user.NewContextWithUser(ctx, claims.Subject)
}

func ClaimsFromContext(ctx context.Context) (*token.Claims, error) {
	claims, ok := ctx.Value(claimsCtxKey).(*token.Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaimsInContext
	}
	return claims, nil
}

// UserFromContext returns the ID of the authenticated user.
func UserFromContext(ctx context.Context) (string, error) {
	return user.FromContext(ctx)
}
