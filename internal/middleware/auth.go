package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"stockmana/internal/logging"
	"stockmana/internal/models"
)

type ctxKey string

const ctxUser ctxKey = "user"

const unauthorizedMessage = "You are not authorized, please Login or Register first..."

type SessionVerifier interface {
	VerifySessionToken(token string) (string, error)
}

type UserFinder interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// RequireAuth reads the session cookie, verifies it and loads the user it
// names. Every failure answers 401 with the same message.
func RequireAuth(cookieName string, tokens SessionVerifier, users UserFinder, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			userID, err := tokens.VerifySessionToken(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil || user == nil {
				if err != nil {
					log.Warn(r.Context(), "session user lookup failed", "user_id", userID, "error", err)
				}
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxUser, user)
}

// UserFromContext returns the user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxUser).(*models.User)
	return u, ok && u != nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": unauthorizedMessage})
}
