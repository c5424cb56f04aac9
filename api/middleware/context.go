package middleware

import (
	"context"

	"github.com/angelmondragon/stockroom-backend/internal/authz"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxActor     contextKey = "actor"
	ctxRole      contextKey = "actor_role"
	ctxSuperuser contextKey = "is_superuser"
	ctxAccessID  contextKey = "access_id"
)

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

// ActorFromContext returns the identifier written to created_by and order logs.
func ActorFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxActor)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// AccessIDFromContext returns the session id (jti) of the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAccessID)
}

func PrincipalFromContext(ctx context.Context) authz.Principal {
	superuser := false
	if ctx != nil {
		superuser, _ = ctx.Value(ctxSuperuser).(bool)
	}
	return authz.Principal{
		Role:        enums.StaffRole(RoleFromContext(ctx)),
		IsSuperuser: superuser,
	}
}

// WithIdentity injects an authenticated staff identity. Used by Auth and tests.
func WithIdentity(ctx context.Context, userID, actor string, role enums.StaffRole, superuser bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxActor, actor)
	ctx = context.WithValue(ctx, ctxRole, string(role))
	return context.WithValue(ctx, ctxSuperuser, superuser)
}

// WithAccessID records the session id of the presented bearer token.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
