// Package mq carries tracked telemetry events from the intake endpoint to
// the ingest worker. Implementations: kafka, redis streams, noop for dev.
package mq

import (
	"log/slog"
	"time"
)

// TrackedEvent is one pageview or custom event as accepted at the edge.
// The worker resolves it into a columnar row; nothing here is trusted for
// authorization, only site attribution.
type TrackedEvent struct {
	SiteID          string    `json:"site_id"`
	EventName       string    `json:"event_name"`
	VisitorID       string    `json:"visitor_id"`
	SessionID       string    `json:"session_id"`
	Path            string    `json:"path,omitempty"`
	CountryCode     string    `json:"country_code,omitempty"`
	ReferrerSource  string    `json:"referrer_source,omitempty"`
	ReferrerURL     string    `json:"referrer_url,omitempty"`
	CustomEventJSON string    `json:"custom_event_json,omitempty"`
	EventTime       time.Time `json:"event_time"`
	DurationSec     uint32    `json:"duration_sec,omitempty"`
}

// Queue publishes tracked events toward the ingest pipeline.
type Queue interface {
	PublishEvent(evt TrackedEvent) error
	Close() error
}

// Config selects and parameterizes the queue backend.
type Config struct {
	Type         string // kafka|redis|noop
	KafkaBrokers []string
	KafkaTopic   string
	RedisURL     string
	RedisStream  string
	RedisMaxLen  int64
}

// New builds a Queue from config, falling back to noop for anything it
// cannot construct; intake must keep answering even without a broker.
func New(cfg Config) Queue {
	switch cfg.Type {
	case "kafka":
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
	case "redis":
		return NewRedis(cfg.RedisURL, cfg.RedisStream, cfg.RedisMaxLen)
	case "", "noop":
		slog.Info("analytics mq disabled; using noop queue")
		return NewNoop()
	default:
		slog.Warn("unsupported analytics mq type; using noop", "type", cfg.Type)
		return NewNoop()
	}
}
