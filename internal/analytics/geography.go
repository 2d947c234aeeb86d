package analytics

import (
	"context"

	"github.com/better-analytics/dashboard/internal/entity"
)

// GeoDistribution returns one row per observed country code.
func (s *Service) GeoDistribution(ctx context.Context, siteID string, tr TimeRange) ([]entity.GeoVisitor, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetGeoDistribution(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return nil, err
	}
	if err := validateRows(entity.GeoVisitorSchema, rows); err != nil {
		return nil, err
	}
	return rows, nil
}
