// Package error classifies errors shared across the HTTP layer.
package error

import (
	"context"
	"errors"
	"log/slog"
)

// IsContextError reports whether err stems from a cancelled or expired request context.
func IsContextError(err error) bool {
	switch {
	case errors.Is(err, context.Canceled):
		slog.Warn("request has been cancelled")
		return true
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("request timed out")
		return true
	default:
		return false
	}
}
