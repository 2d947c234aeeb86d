package analytics

import (
	"context"

	"github.com/better-analytics/dashboard/internal/entity"
)

// ReferrerSourceAggregation returns distinct visitors per referrer source.
// Empty sources are reported as "direct" by the repository, so every row
// carries a non-empty source.
func (s *Service) ReferrerSourceAggregation(ctx context.Context, siteID string, tr TimeRange) ([]entity.ReferrerSourceAggregation, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetReferrerDistribution(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return nil, err
	}
	if err := validateRows(entity.ReferrerSourceAggregationSchema, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReferrerTrafficBySource returns visit counts per day per source.
func (s *Service) ReferrerTrafficBySource(ctx context.Context, siteID string, tr TimeRange) ([]entity.ReferrerTrafficBySourceRow, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetReferrerTrafficBySource(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return nil, err
	}
	if err := validateRows(entity.ReferrerTrafficBySourceRowSchema, rows); err != nil {
		return nil, err
	}
	return rows, nil
}
