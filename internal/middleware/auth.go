package middleware

import (
	"context"
	"net/http"
	"strings"
	"taskManager/internal/logger"
	"taskManager/internal/models/user"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

const userKey contextKey = "user"

const (
	msgLoginRequired = "You must be logged in to access this resource"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// Auth rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, msgLoginRequired)
				return
			}

			u, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if be, ok := service.AsBusinessError(err); ok && be.Code == service.CodeUnavailable {
					logger.Error("HTTP: authentication unavailable", err,
						zap.String("request_id", GetRequestID(r.Context())))
					writeJSON(w, http.StatusInternalServerError, map[string]any{
						"success": false,
						"error":   be.Code,
						"message": be.Message,
					})
					return
				}
				logger.Warn("HTTP: authentication failed",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))
				unauthorized(w, service.MsgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"success": false,
		"error":   "UNAUTHORIZED",
		"message": message,
	})
}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok && u != nil
}
