// Package worker drains the redis event stream into the columnar store.
// It is the only writer of analytics rows; the dashboard side is read-only.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/better-analytics/dashboard/internal/analytics/mq"
	chrepo "github.com/better-analytics/dashboard/internal/infra/persistence/clickhouse"
)

type Config struct {
	RedisURL string
	Stream   string
	Group    string
	Consumer string
}

type Worker struct {
	rdb      *redis.Client
	repo     *chrepo.Repo
	stream   string
	group    string
	consumer string
}

func New(cfg Config, repo *chrepo.Repo) (*Worker, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	if cfg.Stream == "" {
		cfg.Stream = "analytics:events"
	}
	if cfg.Group == "" {
		cfg.Group = "analytics-worker"
	}
	if cfg.Consumer == "" {
		cfg.Consumer = fmt.Sprintf("c-%d", time.Now().UnixNano())
	}
	return &Worker{
		rdb:      redis.NewClient(opt),
		repo:     repo,
		stream:   cfg.Stream,
		group:    cfg.Group,
		consumer: cfg.Consumer,
	}, nil
}

func (w *Worker) ensureGroup(ctx context.Context) {
	_ = w.rdb.XGroupCreateMkStream(ctx, w.stream, w.group, "$").Err()
}

// Run consumes until ctx is canceled. Messages that cannot be decoded are
// acked and dropped; insert failures stay pending for redelivery.
func (w *Worker) Run(ctx context.Context) error {
	w.ensureGroup(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    w.group,
			Consumer: w.consumer,
			Streams:  []string{w.stream, ">"},
			Count:    200,
			Block:    2 * time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("xreadgroup", "err", err)
			continue
		}
		for _, str := range res {
			for _, msg := range str.Messages {
				data, _ := msg.Values["data"].(string)
				if data == "" {
					_ = w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err()
					continue
				}
				var evt mq.TrackedEvent
				if err := json.Unmarshal([]byte(data), &evt); err != nil {
					slog.Warn("drop undecodable event", "id", msg.ID, "err", err)
					_ = w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err()
					continue
				}
				if err := w.insert(ctx, evt); err != nil {
					slog.Warn("insert event", "err", err)
					continue
				}
				_ = w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err()
			}
		}
	}
}

func (w *Worker) insert(ctx context.Context, evt mq.TrackedEvent) error {
	if evt.EventTime.IsZero() {
		evt.EventTime = time.Now()
	}
	return w.repo.InsertEvent(ctx, chrepo.EventRecord{
		SiteID:          evt.SiteID,
		EventName:       evt.EventName,
		VisitorID:       evt.VisitorID,
		SessionID:       evt.SessionID,
		Path:            evt.Path,
		CountryCode:     evt.CountryCode,
		ReferrerSource:  evt.ReferrerSource,
		ReferrerURL:     evt.ReferrerURL,
		CustomEventJSON: evt.CustomEventJSON,
		EventTime:       evt.EventTime,
		DurationSec:     evt.DurationSec,
	})
}

func (w *Worker) Close() error { return w.rdb.Close() }
