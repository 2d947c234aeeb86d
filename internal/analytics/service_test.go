package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/better-analytics/dashboard/internal/entity"
	chrepo "github.com/better-analytics/dashboard/internal/infra/persistence/clickhouse"
)

// fakeRepo satisfies Repository with per-method overrides.
type fakeRepo struct {
	eventsOverview []entity.EventTypeRow
	totalEvents    uint64
	dailyViews     []entity.PageviewsCountRow
	dailyVisitors  []entity.UniqueVisitorsRow
	totalVisitors  uint64
	totalViews     uint64
	sessions       chrepo.SessionMetrics
	pages          []entity.PageAnalytics
	geo            []entity.GeoVisitor
	referrers      []entity.ReferrerSourceAggregation
	referrerTrend  []entity.ReferrerTrafficBySourceRow
	countAll       uint64
	funnelCounts   []uint64
	err            error
}

func (f *fakeRepo) GetCustomEventsOverview(context.Context, string, time.Time, time.Time) ([]entity.EventTypeRow, error) {
	return f.eventsOverview, f.err
}
func (f *fakeRepo) GetTotalEventCount(context.Context, string, time.Time, time.Time) (uint64, error) {
	return f.totalEvents, f.err
}
func (f *fakeRepo) GetDailyPageViews(context.Context, string, time.Time, time.Time) ([]entity.PageviewsCountRow, error) {
	return f.dailyViews, f.err
}
func (f *fakeRepo) GetDailyUniqueVisitors(context.Context, string, time.Time, time.Time) ([]entity.UniqueVisitorsRow, error) {
	return f.dailyVisitors, f.err
}
func (f *fakeRepo) GetTotalUniqueVisitors(context.Context, string, time.Time, time.Time) (uint64, error) {
	return f.totalVisitors, f.err
}
func (f *fakeRepo) GetTotalPageviews(context.Context, string, time.Time, time.Time) (uint64, error) {
	return f.totalViews, f.err
}
func (f *fakeRepo) GetSessionMetrics(context.Context, string, time.Time, time.Time) (chrepo.SessionMetrics, error) {
	return f.sessions, f.err
}
func (f *fakeRepo) GetPageMetrics(context.Context, string, time.Time, time.Time) ([]entity.PageAnalytics, error) {
	return f.pages, f.err
}
func (f *fakeRepo) GetGeoDistribution(context.Context, string, time.Time, time.Time) ([]entity.GeoVisitor, error) {
	return f.geo, f.err
}
func (f *fakeRepo) GetReferrerDistribution(context.Context, string, time.Time, time.Time) ([]entity.ReferrerSourceAggregation, error) {
	return f.referrers, f.err
}
func (f *fakeRepo) GetReferrerTrafficBySource(context.Context, string, time.Time, time.Time) ([]entity.ReferrerTrafficBySourceRow, error) {
	return f.referrerTrend, f.err
}
func (f *fakeRepo) CountEvents(context.Context, string) (uint64, error) {
	return f.countAll, f.err
}
func (f *fakeRepo) EvaluateFunnel(context.Context, string, []string, time.Time, time.Time) ([]uint64, error) {
	return f.funnelCounts, f.err
}

func validRange() TimeRange {
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	return TimeRange{Start: end.AddDate(0, 0, -7), End: end}
}

func TestNormalizeRejectsBadRanges(t *testing.T) {
	cases := []TimeRange{
		{},
		{Start: time.Now()},
		{End: time.Now()},
		{Start: time.Now(), End: time.Now().Add(-time.Hour)},
	}
	for i, tr := range cases {
		if _, err := tr.Normalize(); !errors.Is(err, ErrInvalidTimeRange) {
			t.Fatalf("case %d: expected ErrInvalidTimeRange, got %v", i, err)
		}
	}
}

func TestNormalizeTruncatesToSeconds(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 123456789, time.UTC)
	tr, err := TimeRange{Start: start, End: start.Add(time.Hour)}.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if tr.Start.Nanosecond() != 0 || tr.End.Nanosecond() != 0 {
		t.Fatalf("expected whole seconds, got %v..%v", tr.Start, tr.End)
	}
}

func TestCustomEventsOverview(t *testing.T) {
	svc := NewService(&fakeRepo{eventsOverview: []entity.EventTypeRow{
		{EventName: "signup", Count: 3},
		{EventName: "purchase", Count: 1},
	}})
	rows, err := svc.CustomEventsOverview(context.Background(), "acme-abc", validRange())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestCustomEventsOverviewDuplicateName(t *testing.T) {
	svc := NewService(&fakeRepo{eventsOverview: []entity.EventTypeRow{
		{EventName: "signup", Count: 3},
		{EventName: "signup", Count: 1},
	}})
	_, err := svc.CustomEventsOverview(context.Background(), "acme-abc", validRange())
	var integrity *DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected DataIntegrityError, got %v", err)
	}
}

func TestCustomEventsOverviewBadRow(t *testing.T) {
	svc := NewService(&fakeRepo{eventsOverview: []entity.EventTypeRow{
		{EventName: "", Count: 3},
	}})
	_, err := svc.CustomEventsOverview(context.Background(), "acme-abc", validRange())
	var integrity *DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected DataIntegrityError for empty event name, got %v", err)
	}
}

func TestSummaryStatsDerivations(t *testing.T) {
	svc := NewService(&fakeRepo{
		totalVisitors: 40,
		totalViews:    100,
		sessions:      chrepo.SessionMetrics{TotalSessions: 50, MultiPageSessions: 20, TotalDurationSec: 4000},
	})
	stats, err := svc.SummaryStats(context.Background(), "acme-abc", validRange())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	// 30 of 50 sessions bounced
	if stats.BounceRate != 60 {
		t.Fatalf("expected bounce rate 60, got %d", stats.BounceRate)
	}
	// 4000s across 20 multi-page sessions
	if stats.AvgVisitDuration != 200 {
		t.Fatalf("expected avg duration 200, got %d", stats.AvgVisitDuration)
	}
	if stats.UniqueVisitors != 40 || stats.Pageviews != 100 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
}

func TestSummaryStatsNoSessions(t *testing.T) {
	svc := NewService(&fakeRepo{})
	stats, err := svc.SummaryStats(context.Background(), "acme-abc", validRange())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if stats.BounceRate != 0 || stats.AvgVisitDuration != 0 {
		t.Fatalf("expected zero derived stats, got %+v", stats)
	}
}

func TestGeoDistributionBadCountryCode(t *testing.T) {
	svc := NewService(&fakeRepo{geo: []entity.GeoVisitor{{CountryCode: "USA", Visitors: 5}}})
	_, err := svc.GeoDistribution(context.Background(), "acme-abc", validRange())
	var integrity *DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected DataIntegrityError for 3-letter code, got %v", err)
	}
}

func TestVerifyTrackingInstallation(t *testing.T) {
	ctx := context.Background()
	if NewService(&fakeRepo{countAll: 0}).VerifyTrackingInstallation(ctx, "acme-abc") {
		t.Fatal("zero events must report not installed")
	}
	if !NewService(&fakeRepo{countAll: 7}).VerifyTrackingInstallation(ctx, "acme-abc") {
		t.Fatal("events present must report installed")
	}
	// store failure resolves to "not installed", never an error
	if NewService(&fakeRepo{err: errors.New("down")}).VerifyTrackingInstallation(ctx, "acme-abc") {
		t.Fatal("store failure must report not installed")
	}
}

func TestOverviewSumMatchesTotal(t *testing.T) {
	svc := NewService(&fakeRepo{
		eventsOverview: []entity.EventTypeRow{
			{EventName: "signup", Count: 3},
			{EventName: "purchase", Count: 2},
		},
		totalEvents: 5,
	})
	ctx := context.Background()
	rows, err := svc.CustomEventsOverview(ctx, "acme-abc", validRange())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	total, err := svc.TotalEventCount(ctx, "acme-abc", validRange())
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	var sum uint64
	for _, row := range rows {
		sum += row.Count
	}
	if sum != total {
		t.Fatalf("per-event sum %d disagrees with total %d", sum, total)
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	svc := NewService(&fakeRepo{dailyViews: []entity.PageviewsCountRow{
		{Date: "2026-08-01", Views: 10},
		{Date: "2026-08-02", Views: 7},
	}})
	ctx := context.Background()
	first, err := svc.DailyPageViews(ctx, "acme-abc", validRange())
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := svc.DailyPageViews(ctx, "acme-abc", validRange())
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("row counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRepoErrorPropagates(t *testing.T) {
	boom := errors.New("clickhouse down")
	svc := NewService(&fakeRepo{err: boom})
	if _, err := svc.DailyPageViews(context.Background(), "acme-abc", validRange()); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
