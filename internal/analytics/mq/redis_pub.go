package mq

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type redisQueue struct {
	cli    *redis.Client
	stream string
	maxLen int64
}

func NewRedis(url, stream string, maxLen int64) Queue {
	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("analytics mq redis url invalid; using noop", "err", err)
		return NewNoop()
	}
	if stream == "" {
		stream = "analytics:events"
	}
	return &redisQueue{cli: redis.NewClient(opt), stream: stream, maxLen: maxLen}
}

func (q *redisQueue) PublishEvent(evt TrackedEvent) error {
	// Single 'data' field with a JSON body keeps the stream schema-flexible.
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	args := &redis.XAddArgs{Stream: q.stream, Values: map[string]any{"data": string(b)}}
	if q.maxLen > 0 {
		args.MaxLen = q.maxLen
		args.Approx = true
	}
	return q.cli.XAdd(ctx, args).Err()
}

func (q *redisQueue) Close() error { return q.cli.Close() }
