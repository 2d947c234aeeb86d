package analytics

import (
	"context"

	"github.com/better-analytics/dashboard/internal/entity"
)

// DailyPageViews returns one row per calendar day that saw traffic. Days
// without traffic do not appear.
func (s *Service) DailyPageViews(ctx context.Context, siteID string, tr TimeRange) ([]entity.PageviewsCountRow, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetDailyPageViews(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return nil, err
	}
	if err := validateRows(entity.PageviewsCountRowSchema, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DailyUniqueVisitors returns distinct visitors per day with traffic.
func (s *Service) DailyUniqueVisitors(ctx context.Context, siteID string, tr TimeRange) ([]entity.UniqueVisitorsRow, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetDailyUniqueVisitors(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return nil, err
	}
	if err := validateRows(entity.UniqueVisitorsRowSchema, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SummaryStats composes the headline card from three store reads. Bounce
// rate and average duration are derived here, not in the store.
func (s *Service) SummaryStats(ctx context.Context, siteID string, tr TimeRange) (entity.SummaryStats, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return entity.SummaryStats{}, err
	}
	visitors, err := s.repo.GetTotalUniqueVisitors(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return entity.SummaryStats{}, err
	}
	views, err := s.repo.GetTotalPageviews(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return entity.SummaryStats{}, err
	}
	sm, err := s.repo.GetSessionMetrics(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return entity.SummaryStats{}, err
	}
	stats := entity.SummaryStats{UniqueVisitors: visitors, Pageviews: views}
	if sm.TotalSessions > 0 {
		bounced := sm.TotalSessions - sm.MultiPageSessions
		stats.BounceRate = int(bounced * 100 / sm.TotalSessions)
	}
	if sm.MultiPageSessions > 0 {
		stats.AvgVisitDuration = int(sm.TotalDurationSec / sm.MultiPageSessions)
	}
	if err := entity.SummaryStatsSchema.Validate(stats); err != nil {
		return entity.SummaryStats{}, &DataIntegrityError{Entity: "SummaryStats", Err: err}
	}
	return stats, nil
}

// PageAnalytics returns per-path engagement for the window.
func (s *Service) PageAnalytics(ctx context.Context, siteID string, tr TimeRange) ([]entity.PageAnalytics, error) {
	tr, err := tr.Normalize()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetPageMetrics(ctx, siteID, tr.Start, tr.End)
	if err != nil {
		return nil, err
	}
	if err := validateRows(entity.PageAnalyticsSchema, rows); err != nil {
		return nil, err
	}
	return rows, nil
}
