// internal/server/middleware.go
package server

import (
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

// withCORS lets browser-based charts read the API.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// newRateLimiter applies one token bucket to the whole server. A zero rate
// disables limiting.
func newRateLimiter(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(h http.Handler) http.Handler { return h }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				_ = render.Render(w, r, NewErrorResponse(ErrRateLimitExceeded))
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}
