package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/pkg/web"
)

const defaultPayloadBytes = 1 << 20

var (
	errEmptyPayload    = errors.New("empty payload")
	errTrailingPayload = errors.New("payload has data after the first json value")
)

// DecodePayload decodes a single JSON object of type T, capped at bodySize
// bytes, and stores it in the request context for the handler. Unknown
// fields are rejected so a credential payload cannot smuggle extra claims.
func DecodePayload[T any](bodySize int64) func(next http.Handler) http.Handler {
	if bodySize <= 0 {
		bodySize = defaultPayloadBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, bodySize)

			decoded, err := decodeJSON[T](r.Body)
			if err != nil {
				slog.Debug("rejected payload", "path", r.URL.Path, "type", fmt.Sprintf("%T", decoded), "reason", err)
				respondDecodeError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(web.NewContextWithParams(r.Context(), decoded)))
		})
	}
}

func decodeJSON[T any](body io.Reader) (T, error) {
	var decoded T

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&decoded); err != nil {
		if errors.Is(err, io.EOF) {
			return decoded, errEmptyPayload
		}
		return decoded, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return decoded, errTrailingPayload
	}
	return decoded, nil
}

func respondDecodeError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		web.RespondRequestEntityTooLarge(w, err, message.InvalidInput, nil)
		return
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		web.RespondUnprocessableEntity(w, err, "Unknown field in payload.",
			map[string]string{"field": strings.Trim(field, `"`)})
		return
	}

	web.RespondBadRequest(w, err, message.InvalidInput, nil)
}
