package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/auth"
	"github.com/linesmerrill/medication-reminder-api/config"
	"github.com/linesmerrill/medication-reminder-api/models"
)

// MiddlewareAuth verifies bearer tokens issued by the auth routes
type MiddlewareAuth struct {
	Tokens auth.TokenManager
}

// Middleware rejects requests without a valid bearer token and stores the token's
// user id on the request context for the handlers
func (m MiddlewareAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		token, ok := bearerToken(r)
		if !ok {
			config.ErrorStatus("missing bearer token", http.StatusUnauthorized, w, models.ErrUnauthenticated)
			return
		}
		userID, err := m.Tokens.Parse(token)
		if err != nil {
			zap.S().Debugw("rejected token", "path", r.URL.Path, "error", err)
			config.ErrorStatus("invalid bearer token", http.StatusUnauthorized, w, models.ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
