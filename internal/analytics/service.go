// Package analytics exposes the tenant-scoped read operations behind the
// dashboard. Services take a site id and a time range, delegate to the
// columnar repository, and validate every row before it reaches a caller.
// Authorization is a closed question by the time a service runs: no
// operation here accepts a role or a raw dashboard id.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/better-analytics/dashboard/internal/entity"
	chrepo "github.com/better-analytics/dashboard/internal/infra/persistence/clickhouse"
)

// ErrInvalidTimeRange rejects windows with a missing bound or start > end.
var ErrInvalidTimeRange = errors.New("invalid time range")

// DataIntegrityError means a storage row failed schema validation. The call
// fails whole: a partially-correct analytics answer is worse than none.
type DataIntegrityError struct {
	Entity string
	Err    error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s: %v", e.Entity, e.Err)
}

func (e *DataIntegrityError) Unwrap() error { return e.Err }

// TimeRange is a closed query window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Normalize validates the window and truncates to whole seconds so repeated
// queries for the same logical range hit identical store parameters.
func (tr TimeRange) Normalize() (TimeRange, error) {
	if tr.Start.IsZero() || tr.End.IsZero() {
		return TimeRange{}, fmt.Errorf("%w: both bounds required", ErrInvalidTimeRange)
	}
	if tr.Start.After(tr.End) {
		return TimeRange{}, fmt.Errorf("%w: start after end", ErrInvalidTimeRange)
	}
	return TimeRange{Start: tr.Start.Truncate(time.Second), End: tr.End.Truncate(time.Second)}, nil
}

// Repository is the columnar-store capability the services delegate to.
// Implemented by the ClickHouse adapter; faked in tests.
type Repository interface {
	GetCustomEventsOverview(ctx context.Context, siteID string, start, end time.Time) ([]entity.EventTypeRow, error)
	GetTotalEventCount(ctx context.Context, siteID string, start, end time.Time) (uint64, error)
	GetDailyPageViews(ctx context.Context, siteID string, start, end time.Time) ([]entity.PageviewsCountRow, error)
	GetDailyUniqueVisitors(ctx context.Context, siteID string, start, end time.Time) ([]entity.UniqueVisitorsRow, error)
	GetTotalUniqueVisitors(ctx context.Context, siteID string, start, end time.Time) (uint64, error)
	GetTotalPageviews(ctx context.Context, siteID string, start, end time.Time) (uint64, error)
	GetSessionMetrics(ctx context.Context, siteID string, start, end time.Time) (chrepo.SessionMetrics, error)
	GetPageMetrics(ctx context.Context, siteID string, start, end time.Time) ([]entity.PageAnalytics, error)
	GetGeoDistribution(ctx context.Context, siteID string, start, end time.Time) ([]entity.GeoVisitor, error)
	GetReferrerDistribution(ctx context.Context, siteID string, start, end time.Time) ([]entity.ReferrerSourceAggregation, error)
	GetReferrerTrafficBySource(ctx context.Context, siteID string, start, end time.Time) ([]entity.ReferrerTrafficBySourceRow, error)
	CountEvents(ctx context.Context, siteID string) (uint64, error)
	EvaluateFunnel(ctx context.Context, siteID string, steps []string, start, end time.Time) ([]uint64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// validateRows checks every row against its schema; one bad row fails the
// whole result set.
func validateRows[T any](schema *entity.Schema, rows []T) error {
	for i := range rows {
		if err := schema.Validate(rows[i]); err != nil {
			return &DataIntegrityError{Entity: schema.Name(), Err: err}
		}
	}
	return nil
}
