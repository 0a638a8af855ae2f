package middleware

import (
	"context"
	"net/http"

	"github.com/rentrackhq/rentrack-backend/api/responses"
	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

// SubscriptionChecker gates item writes against the organization's plan.
type SubscriptionChecker interface {
	CheckItemAllowance(ctx context.Context, organizationID int, additive bool) error
}

// CountInvalidator drops cached counters that a write has made stale.
type CountInvalidator interface {
	InvalidateItemCount(ctx context.Context, organizationID int)
}

// CheckSubscription blocks the request when the caller's organization is not
// allowed to perform the gated write. additive marks requests that add items,
// which are held to the plan's item limit; non-additive writes only require a
// known organization.
func CheckSubscription(svc SubscriptionChecker, additive bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if svc == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscription service unavailable"))
				return
			}

			organizationID := OrganizationIDFromContext(r.Context())
			if organizationID == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing"))
				return
			}

			if err := svc.CheckItemAllowance(r.Context(), organizationID, additive); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// InvalidateItemCount drops the organization's cached item count after a
// request that changed it completed successfully. Without this the allowance
// check keeps reading the stale count until the cache TTL elapses.
func InvalidateItemCount(svc CountInvalidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusBadRequest {
				return
			}
			if svc == nil {
				return
			}
			if organizationID := OrganizationIDFromContext(r.Context()); organizationID != 0 {
				svc.InvalidateItemCount(r.Context(), organizationID)
			}
		})
	}
}
