package chrepo

import "context"

// EnsureSchema creates the events table if missing. Idempotent; the ingest
// worker runs it at startup so a fresh ClickHouse instance is usable
// without manual DDL. Partitioned by month, ordered for per-site range
// scans.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if err := r.ch.Exec(ctx, `CREATE DATABASE IF NOT EXISTS analytics`); err != nil {
		return err
	}
	return r.ch.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analytics.events (
			site_id           String,
			event_name        String,
			visitor_id        String,
			session_id        String,
			path              String,
			country_code      String,
			referrer_source   String,
			referrer_url      String,
			custom_event_json String,
			event_time        DateTime,
			duration_sec      UInt32,
			date              Date DEFAULT toDate(event_time)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(date)
		ORDER BY (site_id, event_time, visitor_id)
		SETTINGS index_granularity = 8192`)
}
