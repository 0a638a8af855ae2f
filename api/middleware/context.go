package middleware

import "context"

type contextKey string

const (
	ctxUserID         contextKey = "user_id"
	ctxOrganizationID contextKey = "organization_id"
	ctxAdmin          contextKey = "admin"
)

func UserIDFromContext(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int); ok {
		return v
	}
	return 0
}

func OrganizationIDFromContext(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxOrganizationID).(int); ok {
		return v
	}
	return 0
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxAdmin).(bool); ok {
		return v
	}
	return false
}

// WithIdentity seeds the caller's identity into the context. Used by the auth
// middleware and by tests that bypass token verification.
func WithIdentity(ctx context.Context, userID, organizationID int, admin bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxOrganizationID, organizationID)
	return context.WithValue(ctx, ctxAdmin, admin)
}
