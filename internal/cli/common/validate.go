package common

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

func ValidateAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("empty address")
	}
	if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
		return err
	}
	return nil
}

// ValidateServeConfig checks the dashboard server config. strict requires
// everything a production deployment needs; non-strict allows the sqlite
// and noop-queue dev fallbacks.
func ValidateServeConfig(v *viper.Viper, strict bool) error {
	if sub := v.Sub("serve"); sub != nil {
		v = sub
	}
	if err := ValidateAddr(v.GetString("http_addr")); err != nil {
		return fmt.Errorf("http_addr: %w", err)
	}
	if v.GetString("session_secret") == "" {
		return fmt.Errorf("session_secret missing")
	}
	if strict {
		if v.GetString("clickhouse_dsn") == "" {
			return fmt.Errorf("clickhouse_dsn missing")
		}
		if v.GetString("db_dsn") == "" {
			return fmt.Errorf("db_dsn missing")
		}
	}
	if t := v.GetString("mq.type"); t != "" && t != "noop" {
		switch t {
		case "kafka":
			if len(v.GetStringSlice("mq.kafka_brokers")) == 0 {
				return fmt.Errorf("mq.kafka_brokers missing")
			}
		case "redis":
			if v.GetString("mq.redis_url") == "" {
				return fmt.Errorf("mq.redis_url missing")
			}
		default:
			return fmt.Errorf("unknown mq.type %q", t)
		}
	}
	return nil
}

// ValidateWorkerConfig checks the ingest worker config. The worker has no
// dev fallback; it always needs redis and clickhouse.
func ValidateWorkerConfig(v *viper.Viper) error {
	if sub := v.Sub("worker"); sub != nil {
		v = sub
	}
	if v.GetString("redis_url") == "" {
		return fmt.Errorf("redis_url missing")
	}
	if !strings.HasPrefix(v.GetString("clickhouse_dsn"), "clickhouse://") {
		return fmt.Errorf("clickhouse_dsn must be a clickhouse:// dsn")
	}
	return nil
}
