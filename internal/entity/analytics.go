package entity

import "time"

// Analytics rows are immutable projections of columnar-store aggregations,
// scoped to one site and one time window. Field names follow the store's
// column names so raw scan targets and validated output stay one type.

// EventTypeRow is one custom event name with its occurrence count.
type EventTypeRow struct {
	EventName string `json:"event_name"`
	Count     uint64 `json:"count"`
}

var EventTypeRowSchema = MustCompile("EventTypeRow", `{
  "type": "object",
  "required": ["event_name", "count"],
  "properties": {
    "event_name": {"type": "string", "minLength": 1},
    "count":      {"type": "integer", "minimum": 0}
  }
}`)

// PageviewsCountRow is one calendar bucket of pageviews. Days with no
// traffic simply do not appear; absence is not a gap to fill.
type PageviewsCountRow struct {
	Date  string `json:"date"`
	Views uint64 `json:"views"`
}

var PageviewsCountRowSchema = MustCompile("PageviewsCountRow", `{
  "type": "object",
  "required": ["date", "views"],
  "properties": {
    "date":  {"type": "string", "minLength": 1},
    "views": {"type": "integer", "minimum": 0}
  }
}`)

// UniqueVisitorsRow is one calendar bucket of distinct visitors.
type UniqueVisitorsRow struct {
	Date     string `json:"date"`
	Visitors uint64 `json:"unique_visitors"`
}

var UniqueVisitorsRowSchema = MustCompile("UniqueVisitorsRow", `{
  "type": "object",
  "required": ["date", "unique_visitors"],
  "properties": {
    "date":            {"type": "string", "minLength": 1},
    "unique_visitors": {"type": "integer", "minimum": 0}
  }
}`)

// PageAnalytics is per-path engagement for the window.
type PageAnalytics struct {
	Path           string  `json:"path"`
	Visitors       uint64  `json:"visitors"`
	Pageviews      uint64  `json:"pageviews"`
	BounceRate     float64 `json:"bounce_rate"`
	AvgDurationSec float64 `json:"avg_duration_sec"`
}

var PageAnalyticsSchema = MustCompile("PageAnalytics", `{
  "type": "object",
  "required": ["path", "visitors", "pageviews"],
  "properties": {
    "path":             {"type": "string", "minLength": 1},
    "visitors":         {"type": "integer", "minimum": 0},
    "pageviews":        {"type": "integer", "minimum": 0},
    "bounce_rate":      {"type": "number", "minimum": 0, "maximum": 100},
    "avg_duration_sec": {"type": "number", "minimum": 0}
  }
}`)

// SummaryStats is the headline card for a window.
type SummaryStats struct {
	UniqueVisitors   uint64 `json:"unique_visitors"`
	Pageviews        uint64 `json:"pageviews"`
	BounceRate       int    `json:"bounce_rate"`
	AvgVisitDuration int    `json:"avg_visit_duration"`
}

var SummaryStatsSchema = MustCompile("SummaryStats", `{
  "type": "object",
  "required": ["unique_visitors", "pageviews", "bounce_rate", "avg_visit_duration"],
  "properties": {
    "unique_visitors":    {"type": "integer", "minimum": 0},
    "pageviews":          {"type": "integer", "minimum": 0},
    "bounce_rate":        {"type": "integer", "minimum": 0, "maximum": 100},
    "avg_visit_duration": {"type": "integer", "minimum": 0}
  }
}`)

// GeoVisitor is one observed country with its distinct visitor count.
type GeoVisitor struct {
	CountryCode string `json:"country_code"`
	Visitors    uint64 `json:"visitors"`
}

var GeoVisitorSchema = MustCompile("GeoVisitor", `{
  "type": "object",
  "required": ["country_code", "visitors"],
  "properties": {
    "country_code": {"type": "string", "minLength": 2, "maxLength": 2},
    "visitors":     {"type": "integer", "minimum": 0}
  }
}`)

// ReferrerSourceAggregation is distinct visitors per referrer source.
type ReferrerSourceAggregation struct {
	ReferrerSource string `json:"referrer_source"`
	VisitorCount   uint64 `json:"visitor_count"`
}

var ReferrerSourceAggregationSchema = MustCompile("ReferrerSourceAggregation", `{
  "type": "object",
  "required": ["referrer_source", "visitor_count"],
  "properties": {
    "referrer_source": {"type": "string", "minLength": 1},
    "visitor_count":   {"type": "integer", "minimum": 0}
  }
}`)

// ReferrerTrafficBySourceRow is one time bucket of visits for one source.
type ReferrerTrafficBySourceRow struct {
	Date           string `json:"date"`
	ReferrerSource string `json:"referrer_source"`
	Visits         uint64 `json:"visits"`
}

var ReferrerTrafficBySourceRowSchema = MustCompile("ReferrerTrafficBySourceRow", `{
  "type": "object",
  "required": ["date", "referrer_source", "visits"],
  "properties": {
    "date":            {"type": "string", "minLength": 1},
    "referrer_source": {"type": "string", "minLength": 1},
    "visits":          {"type": "integer", "minimum": 0}
  }
}`)

// Funnel is a stored funnel definition plus, when evaluated, per-step
// visitor counts aligned with Steps.
type Funnel struct {
	ID          string    `json:"id"`
	DashboardID string    `json:"dashboard_id"`
	Name        string    `json:"name"`
	Steps       []string  `json:"steps"`
	StepCounts  []uint64  `json:"step_counts,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

var FunnelSchema = MustCompile("Funnel", `{
  "type": "object",
  "required": ["id", "dashboard_id", "name", "steps"],
  "properties": {
    "id":           {"type": "string", "minLength": 1},
    "dashboard_id": {"type": "string", "minLength": 1},
    "name":         {"type": "string", "minLength": 1},
    "steps":        {"type": "array", "minItems": 2, "items": {"type": "string", "minLength": 1}},
    "step_counts":  {"type": "array", "items": {"type": "integer", "minimum": 0}}
  }
}`)
