// Package dashboards creates tenants and answers gated dashboard lookups.
package dashboards

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/better-analytics/dashboard/internal/entity"
	dashboardsgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/dashboards"
)

// OwnerRole is the role granted to a dashboard's creator.
const OwnerRole = "admin"

// GenerateSiteID derives a human-readable slug from a domain: scheme and
// path stripped, first label before the first dot, plus a base-36
// millisecond suffix. Collision-unlikely, not collision-free; the unique
// index on site_id is the actual guarantee.
func GenerateSiteID(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	if i := strings.IndexByte(d, '.'); i >= 0 {
		d = d[:i]
	}
	suffix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return d + "-" + suffix
}

type Service struct {
	repo *dashboardsgorm.Repo
}

func NewService(repo *dashboardsgorm.Repo) *Service { return &Service{repo: repo} }

// CreateNewDashboard persists the dashboard and the creator's admin grant.
// Persistence failures propagate untouched: creation has no partial-success
// state worth papering over. Double submission creates two dashboards; this
// layer does not deduplicate.
func (s *Service) CreateNewDashboard(ctx context.Context, domain, userID string) (*dashboardsgorm.DashboardRecord, error) {
	d := &dashboardsgorm.DashboardRecord{
		ID:     uuid.NewString(),
		Domain: domain,
		SiteID: GenerateSiteID(domain),
	}
	if err := s.repo.Create(ctx, d, userID, OwnerRole); err != nil {
		return nil, fmt.Errorf("create dashboard: %w", err)
	}
	return d, nil
}

// ListForUser returns every dashboard the user holds a grant for.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*dashboardsgorm.DashboardRecord, error) {
	return s.repo.FindAllForUser(ctx, userID)
}

// SiteID is the gated "fetch site id" operation: by the time it runs the
// gate has already proven the binding, so it just reads the context.
func (s *Service) SiteID(_ context.Context, ac entity.AuthContext, _ struct{}) (string, error) {
	return ac.SiteID, nil
}
