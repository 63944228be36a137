package api

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware bounds every request with a deadline. Handlers pass the request
// context down to the database, so a slow query fails with context.DeadlineExceeded
// and the handler writes the error response itself.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
