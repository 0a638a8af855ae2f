package middleware

import (
	"net/http"
	"strings"

	"github.com/rentrackhq/rentrack-backend/api/responses"
	pkgauth "github.com/rentrackhq/rentrack-backend/pkg/auth"
	"github.com/rentrackhq/rentrack-backend/pkg/config"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// caller's user, organization, and role claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithIdentity(r.Context(), claims.UserID, claims.OrganizationID, claims.Admin)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":         claims.UserID,
					"organization_id": claims.OrganizationID,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose token lacks the administrator claim.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "administrator role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
