package chrepo

import (
	"context"
	"time"

	"github.com/better-analytics/dashboard/internal/entity"
)

// SessionMetrics are the raw inputs for bounce rate and visit duration.
type SessionMetrics struct {
	TotalSessions     uint64
	MultiPageSessions uint64
	TotalDurationSec  uint64
}

// EventRecord is one ingested telemetry event bound for the events table.
type EventRecord struct {
	SiteID          string
	EventName       string
	VisitorID       string
	SessionID       string
	Path            string
	CountryCode     string
	ReferrerSource  string
	ReferrerURL     string
	CustomEventJSON string
	EventTime       time.Time
	DurationSec     uint32
}

func (r *Repo) GetCustomEventsOverview(ctx context.Context, siteID string, start, end time.Time) ([]entity.EventTypeRow, error) {
	rows, err := r.ch.Query(ctx,
		`SELECT event_name, count() AS count
		   FROM analytics.events
		  WHERE site_id = ? AND event_name != 'pageview'
		    AND event_time BETWEEN ? AND ?
		  GROUP BY event_name
		  ORDER BY count DESC`,
		siteID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.EventTypeRow
	for rows.Next() {
		var row entity.EventTypeRow
		if err := rows.Scan(&row.EventName, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repo) GetTotalEventCount(ctx context.Context, siteID string, start, end time.Time) (uint64, error) {
	var n uint64
	err := r.ch.QueryRow(ctx,
		`SELECT count() FROM analytics.events
		  WHERE site_id = ? AND event_name != 'pageview'
		    AND event_time BETWEEN ? AND ?`,
		siteID, start, end).Scan(&n)
	return n, err
}

func (r *Repo) GetDailyPageViews(ctx context.Context, siteID string, start, end time.Time) ([]entity.PageviewsCountRow, error) {
	rows, err := r.ch.Query(ctx,
		`SELECT toString(toDate(event_time)) AS d, count() AS views
		   FROM analytics.events
		  WHERE site_id = ? AND event_name = 'pageview'
		    AND event_time BETWEEN ? AND ?
		  GROUP BY d
		  ORDER BY d`,
		siteID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.PageviewsCountRow
	for rows.Next() {
		var row entity.PageviewsCountRow
		if err := rows.Scan(&row.Date, &row.Views); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repo) GetDailyUniqueVisitors(ctx context.Context, siteID string, start, end time.Time) ([]entity.UniqueVisitorsRow, error) {
	rows, err := r.ch.Query(ctx,
		`SELECT toString(toDate(event_time)) AS d, uniqExact(visitor_id) AS unique_visitors
		   FROM analytics.events
		  WHERE site_id = ? AND event_name = 'pageview'
		    AND event_time BETWEEN ? AND ?
		  GROUP BY d
		  ORDER BY d`,
		siteID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.UniqueVisitorsRow
	for rows.Next() {
		var row entity.UniqueVisitorsRow
		if err := rows.Scan(&row.Date, &row.Visitors); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repo) GetTotalUniqueVisitors(ctx context.Context, siteID string, start, end time.Time) (uint64, error) {
	var n uint64
	err := r.ch.QueryRow(ctx,
		`SELECT uniqExact(visitor_id) FROM analytics.events
		  WHERE site_id = ? AND event_time BETWEEN ? AND ?`,
		siteID, start, end).Scan(&n)
	return n, err
}

func (r *Repo) GetTotalPageviews(ctx context.Context, siteID string, start, end time.Time) (uint64, error) {
	var n uint64
	err := r.ch.QueryRow(ctx,
		`SELECT count() FROM analytics.events
		  WHERE site_id = ? AND event_name = 'pageview'
		    AND event_time BETWEEN ? AND ?`,
		siteID, start, end).Scan(&n)
	return n, err
}

func (r *Repo) GetSessionMetrics(ctx context.Context, siteID string, start, end time.Time) (SessionMetrics, error) {
	var m SessionMetrics
	err := r.ch.QueryRow(ctx,
		`SELECT count() AS total_sessions,
		        countIf(pages > 1) AS multi_page_sessions,
		        toUInt64(sum(dur)) AS total_duration
		   FROM (
		     SELECT session_id,
		            countIf(event_name = 'pageview') AS pages,
		            dateDiff('second', min(event_time), max(event_time)) AS dur
		       FROM analytics.events
		      WHERE site_id = ? AND event_time BETWEEN ? AND ?
		      GROUP BY session_id
		   )`,
		siteID, start, end).Scan(&m.TotalSessions, &m.MultiPageSessions, &m.TotalDurationSec)
	return m, err
}

func (r *Repo) GetPageMetrics(ctx context.Context, siteID string, start, end time.Time) ([]entity.PageAnalytics, error) {
	rows, err := r.ch.Query(ctx,
		`SELECT path,
		        uniqExact(visitor_id) AS visitors,
		        count() AS pageviews
		   FROM analytics.events
		  WHERE site_id = ? AND event_name = 'pageview' AND path != ''
		    AND event_time BETWEEN ? AND ?
		  GROUP BY path
		  ORDER BY pageviews DESC
		  LIMIT 100`,
		siteID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.PageAnalytics
	for rows.Next() {
		var row entity.PageAnalytics
		if err := rows.Scan(&row.Path, &row.Visitors, &row.Pageviews); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repo) GetGeoDistribution(ctx context.Context, siteID string, start, end time.Time) ([]entity.GeoVisitor, error) {
	rows, err := r.ch.Query(ctx,
		`SELECT country_code, uniqExact(visitor_id) AS visitors
		   FROM analytics.events
		  WHERE site_id = ? AND country_code != ''
		    AND event_time BETWEEN ? AND ?
		  GROUP BY country_code
		  ORDER BY visitors DESC`,
		siteID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.GeoVisitor
	for rows.Next() {
		var row entity.GeoVisitor
		if err := rows.Scan(&row.CountryCode, &row.Visitors); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repo) GetReferrerDistribution(ctx context.Context, siteID string, start, end time.Time) ([]entity.ReferrerSourceAggregation, error) {
	rows, err := r.ch.Query(ctx,
		`SELECT if(referrer_source = '', 'direct', referrer_source) AS source,
		        uniqExact(visitor_id) AS visitor_count
		   FROM analytics.events
		  WHERE site_id = ? AND event_time BETWEEN ? AND ?
		  GROUP BY source
		  ORDER BY visitor_count DESC`,
		siteID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.ReferrerSourceAggregation
	for rows.Next() {
		var row entity.ReferrerSourceAggregation
		if err := rows.Scan(&row.ReferrerSource, &row.VisitorCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repo) GetReferrerTrafficBySource(ctx context.Context, siteID string, start, end time.Time) ([]entity.ReferrerTrafficBySourceRow, error) {
	rows, err := r.ch.Query(ctx,
		`SELECT toString(toDate(event_time)) AS d,
		        if(referrer_source = '', 'direct', referrer_source) AS source,
		        count() AS visits
		   FROM analytics.events
		  WHERE site_id = ? AND event_name = 'pageview'
		    AND event_time BETWEEN ? AND ?
		  GROUP BY d, source
		  ORDER BY d, visits DESC`,
		siteID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []entity.ReferrerTrafficBySourceRow
	for rows.Next() {
		var row entity.ReferrerTrafficBySourceRow
		if err := rows.Scan(&row.Date, &row.ReferrerSource, &row.Visits); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountEvents reports how many events a site has ever ingested. Used by
// tracking verification only.
func (r *Repo) CountEvents(ctx context.Context, siteID string) (uint64, error) {
	var n uint64
	err := r.ch.QueryRow(ctx,
		`SELECT count() FROM analytics.events WHERE site_id = ?`, siteID).Scan(&n)
	return n, err
}

// EvaluateFunnel returns per-step visitor counts for an ordered step list.
func (r *Repo) EvaluateFunnel(ctx context.Context, siteID string, steps []string, start, end time.Time) ([]uint64, error) {
	counts := make([]uint64, len(steps))
	// One uniqExact per step prefix keeps the query simple; funnels are
	// short (schema caps steps well below request limits).
	for i := range steps {
		var n uint64
		err := r.ch.QueryRow(ctx,
			`SELECT uniqExact(visitor_id) FROM analytics.events
			  WHERE site_id = ? AND event_name = ? AND event_time BETWEEN ? AND ?
			    AND visitor_id IN (
			      SELECT visitor_id FROM analytics.events
			       WHERE site_id = ? AND event_name = ? AND event_time BETWEEN ? AND ?
			    )`,
			siteID, steps[i], start, end, siteID, steps[0], start, end).Scan(&n)
		if err != nil {
			return nil, err
		}
		counts[i] = n
	}
	return counts, nil
}

// InsertEvent writes one event row. Called by the ingest worker.
func (r *Repo) InsertEvent(ctx context.Context, ev EventRecord) error {
	return r.ch.Exec(ctx,
		`INSERT INTO analytics.events
		   (site_id, event_name, visitor_id, session_id, path, country_code,
		    referrer_source, referrer_url, custom_event_json, event_time, duration_sec)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.SiteID, ev.EventName, ev.VisitorID, ev.SessionID, ev.Path, ev.CountryCode,
		ev.ReferrerSource, ev.ReferrerURL, ev.CustomEventJSON, ev.EventTime, ev.DurationSec)
}
