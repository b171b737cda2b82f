package middleware

import "net/http"

// InjectWriter wraps the response writer once per request and marks every
// response as uncacheable, since bodies and cookies carry credentials.
func InjectWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-store")
		h.Set("Pragma", "no-cache")

		if _, ok := w.(*SafeResponseWriter); ok {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(NewSafeResponseWriter(r.Context(), w), r)
	})
}
