// Package gate converts operations that need a verified AuthContext into
// operations callable with just a dashboard id. It is the only place an
// AuthContext is constructed; everything tenant-scoped funnels through it.
package gate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/better-analytics/dashboard/internal/auth/access"
	"github.com/better-analytics/dashboard/internal/entity"
)

var (
	// ErrUnauthenticated means no principal could be resolved. Recoverable
	// by signing in; never an anomaly worth logging.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the principal has no grant for the dashboard, or
	// the dashboard does not exist. The two are deliberately the same.
	ErrForbidden = errors.New("forbidden")
)

type principalKey struct{}

// WithPrincipal stashes the resolved principal in the request context. Set
// once at the request boundary by the session middleware.
func WithPrincipal(ctx context.Context, p entity.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal resolved for this request, if any.
func PrincipalFrom(ctx context.Context) (entity.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(entity.Principal)
	return p, ok
}

// PermissionChecker answers whether a dashboard role may perform an
// operation. Plugged by the casbin policy.
type PermissionChecker interface {
	Allowed(role, permission string) bool
}

type Gate struct {
	access access.Resolver
	perms  PermissionChecker
	log    *slog.Logger
}

func New(resolver access.Resolver, perms PermissionChecker, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{access: resolver, perms: perms, log: log}
}

// Authorize runs the full check for one invocation: principal present,
// access relation present, role allowed. Every call re-resolves access;
// there is no caching and no retry. The returned AuthContext is valid for
// this call only.
func (g *Gate) Authorize(ctx context.Context, dashboardID, permission string) (entity.AuthContext, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return entity.AuthContext{}, ErrUnauthenticated
	}
	grant, ok, err := g.access.ResolveAccess(ctx, dashboardID, p.ID)
	if err != nil {
		return entity.AuthContext{}, err
	}
	if !ok {
		g.log.Warn("dashboard access denied", "user_id", p.ID, "dashboard_id", dashboardID)
		return entity.AuthContext{}, ErrForbidden
	}
	if permission != "" && g.perms != nil && !g.perms.Allowed(grant.Role, permission) {
		g.log.Warn("permission denied", "user_id", p.ID, "dashboard_id", dashboardID, "role", grant.Role, "permission", permission)
		return entity.AuthContext{}, ErrForbidden
	}
	ac := entity.AuthContext{
		DashboardID: dashboardID,
		UserID:      p.ID,
		SiteID:      grant.SiteID,
		Role:        grant.Role,
	}
	if err := entity.AuthContextSchema.Validate(ac); err != nil {
		return entity.AuthContext{}, err
	}
	return ac, nil
}

// Wrap turns an operation requiring an AuthContext into one requiring a
// dashboard id. The wrapped operation runs exactly once, after all checks
// pass, with a freshly built context.
func Wrap[A, R any](g *Gate, permission string, op func(context.Context, entity.AuthContext, A) (R, error)) func(context.Context, string, A) (R, error) {
	return func(ctx context.Context, dashboardID string, arg A) (R, error) {
		var zero R
		ac, err := g.Authorize(ctx, dashboardID, permission)
		if err != nil {
			return zero, err
		}
		return op(ctx, ac, arg)
	}
}
