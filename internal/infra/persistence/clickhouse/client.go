// Package chrepo is the typed adapter over the ClickHouse client. Every
// read takes a site id as its first parameter; callers obtain that site id
// from the auth gate, never from user input.
package chrepo

import (
	"context"
	"fmt"
	"time"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"
)

// Open connects using a clickhouse:// DSN and pings once so a bad address
// fails at startup instead of on the first dashboard load.
func Open(ctx context.Context, dsn string) (clickhouse.Conn, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return conn, nil
}

type Repo struct {
	ch clickhouse.Conn
}

func NewRepo(ch clickhouse.Conn) *Repo { return &Repo{ch: ch} }
