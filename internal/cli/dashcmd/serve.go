// Package dashcmd holds the dashboard subcommands: serve runs the HTTP
// API, ingest-worker drains the event stream into ClickHouse.
package dashcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/better-analytics/dashboard/internal/analytics"
	"github.com/better-analytics/dashboard/internal/analytics/mq"
	"github.com/better-analytics/dashboard/internal/auth/access"
	"github.com/better-analytics/dashboard/internal/auth/gate"
	"github.com/better-analytics/dashboard/internal/auth/rbac"
	"github.com/better-analytics/dashboard/internal/auth/session"
	"github.com/better-analytics/dashboard/internal/cli/common"
	"github.com/better-analytics/dashboard/internal/dashboards"
	"github.com/better-analytics/dashboard/internal/db"
	chrepo "github.com/better-analytics/dashboard/internal/infra/persistence/clickhouse"
	dashboardsgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/dashboards"
	funnelsgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/funnels"
	usersgorm "github.com/better-analytics/dashboard/internal/infra/persistence/gorm/users"
	httpserver "github.com/better-analytics/dashboard/internal/server/http"
	"github.com/better-analytics/dashboard/internal/telemetry"
	"github.com/better-analytics/dashboard/internal/users"
)

// NewServe returns the `dashboard serve` command.
func NewServe() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analytics dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := common.Load(cfgFile, "serve")
			if err != nil {
				return err
			}
			common.SetupLoggerWithFile(
				v.GetString("log.level"), v.GetString("log.format"), v.GetString("log.file"),
				v.GetInt("log.max_size"), v.GetInt("log.max_backups"), v.GetInt("log.max_age"),
				v.GetBool("log.compress"),
			)
			if err := common.ValidateServeConfig(v, false); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			gdb, err := db.Open(v.GetString("db_dsn"))
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			usersRepo := usersgorm.NewRepo(gdb)
			dashRepo := dashboardsgorm.NewRepo(gdb)
			funnelsRepo := funnelsgorm.NewRepo(gdb)
			for _, m := range []func() error{usersRepo.Migrate, dashRepo.Migrate, funnelsRepo.Migrate} {
				if err := m(); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			chConn, err := chrepo.Open(ctx, v.GetString("clickhouse_dsn"))
			if err != nil {
				return fmt.Errorf("clickhouse: %w", err)
			}
			defer chConn.Close()
			chRepo := chrepo.NewRepo(chConn)

			policy, err := rbac.NewPolicy()
			if err != nil {
				return err
			}

			tel, err := telemetry.NewProvider(ctx, telemetry.Config{
				ServiceName:  "better-analytics-dashboard",
				Environment:  v.GetString("environment"),
				CollectorURL: v.GetString("otel_collector_url"),
			})
			if err != nil {
				return fmt.Errorf("telemetry: %w", err)
			}
			defer func() {
				if err := tel.Shutdown(context.Background()); err != nil {
					slog.Warn("telemetry shutdown", "err", err)
				}
			}()

			queue := mq.New(mq.Config{
				Type:         v.GetString("mq.type"),
				KafkaBrokers: v.GetStringSlice("mq.kafka_brokers"),
				KafkaTopic:   v.GetString("mq.kafka_topic"),
				RedisURL:     v.GetString("mq.redis_url"),
				RedisStream:  v.GetString("mq.redis_stream"),
				RedisMaxLen:  v.GetInt64("mq.redis_max_len"),
			})
			defer queue.Close()

			srv := httpserver.New(httpserver.Deps{
				Sessions:  session.NewManager(v.GetString("session_secret"), "better-analytics"),
				Gate:      gate.New(access.NewResolver(dashRepo), policy, slog.Default()),
				Users:     users.NewService(usersRepo),
				Dash:      dashboards.NewService(dashRepo),
				Analytics: analytics.NewService(chRepo),
				Funnels:   analytics.NewFunnelService(funnelsRepo, chRepo),
				Queue:     queue,
				Log:       slog.Default(),
			})
			return srv.Start(ctx, v.GetString("http_addr"))
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml), supports top-level 'serve:' section")
	cmd.Flags().String("http_addr", ":8080", "http api listen address")
	cmd.Flags().String("db_dsn", "", "relational dsn (postgres:// or sqlite); empty uses a local sqlite file")
	cmd.Flags().String("clickhouse_dsn", "clickhouse://localhost:9000/analytics", "clickhouse dsn for analytics reads")
	cmd.Flags().String("session_secret", "", "hs256 secret for session tokens")
	cmd.Flags().String("otel_collector_url", "", "otlp http collector endpoint; empty disables tracing")
	cmd.Flags().String("environment", "dev", "deployment environment tag")
	cmd.Flags().String("mq.type", "", "event queue backend: kafka|redis|noop")
	cmd.Flags().StringSlice("mq.kafka_brokers", nil, "kafka broker addresses")
	cmd.Flags().String("mq.kafka_topic", "analytics.events", "kafka topic for tracked events")
	cmd.Flags().String("mq.redis_url", "", "redis url for the event stream")
	cmd.Flags().String("mq.redis_stream", "analytics:events", "redis stream key")
	cmd.Flags().Int64("mq.redis_max_len", 100000, "approximate stream max length")
	cmd.Flags().String("log.level", "info", "log level: debug|info|warn|error")
	cmd.Flags().String("log.format", "console", "log format: console|json")
	cmd.Flags().String("log.file", "", "log file path; empty logs to stderr")
	cmd.Flags().Int("log.max_size", 100, "log rotation size (MB)")
	cmd.Flags().Int("log.max_backups", 3, "rotated files to keep")
	cmd.Flags().Int("log.max_age", 28, "rotated file age (days)")
	cmd.Flags().Bool("log.compress", false, "compress rotated files")
	_ = viper.BindPFlags(cmd.Flags())
	return cmd
}
