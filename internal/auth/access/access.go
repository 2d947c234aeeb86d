// Package access maps (dashboard, user) to a tenant grant. A dashboard that
// does not exist and a dashboard the user cannot open are indistinguishable
// here on purpose: callers must not be able to probe for existence.
package access

import (
	"context"
	"errors"

	"gorm.io/gorm"

	dashboardsgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/dashboards"
)

// Grant is the stored role plus the tenant partition the role applies to.
type Grant struct {
	Role   string
	SiteID string
}

// Resolver answers whether a user may obtain an auth context for a
// dashboard. Resolution is per call; grants are never cached, since access
// can be revoked or transferred between calls.
type Resolver interface {
	ResolveAccess(ctx context.Context, dashboardID, userID string) (Grant, bool, error)
}

type gormResolver struct {
	repo *dashboardsgorm.Repo
}

func NewResolver(repo *dashboardsgorm.Repo) Resolver { return &gormResolver{repo: repo} }

func (r *gormResolver) ResolveAccess(ctx context.Context, dashboardID, userID string) (Grant, bool, error) {
	rel, err := r.repo.FindUserDashboard(ctx, userID, dashboardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Grant{}, false, nil
	}
	if err != nil {
		return Grant{}, false, err
	}
	d, err := r.repo.FindByID(ctx, rel.DashboardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Grant{}, false, nil
	}
	if err != nil {
		return Grant{}, false, err
	}
	return Grant{Role: rel.Role, SiteID: d.SiteID}, true, nil
}
