package user

import (
	"context"
	"errors"
)

type ctxKey int

const userCtxKey ctxKey = iota

var ErrNoUserInContext = errors.New("no user in context")

// NewContextWithUser stores the authenticated user's ID.
//
//nolint:ireturn //This function needs to return a context.
func NewContextWithUser(baseCtx context.Context, userID string) context.Context {
	return context.WithValue(baseCtx, userCtxKey, userID)
}

func FromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userCtxKey).(string)
	if !ok || userID == "" {
		return "", ErrNoUserInContext
	}
	return userID, nil
}
