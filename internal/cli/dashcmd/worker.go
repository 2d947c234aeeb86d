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

	"github.com/better-analytics/dashboard/internal/analytics/worker"
	"github.com/better-analytics/dashboard/internal/cli/common"
	chrepo "github.com/better-analytics/dashboard/internal/infra/persistence/clickhouse"
)

// NewWorker returns the `dashboard ingest-worker` command.
func NewWorker() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "ingest-worker",
		Short: "Drain tracked events from redis into ClickHouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := common.Load(cfgFile, "worker")
			if err != nil {
				return err
			}
			common.SetupLogger(v.GetString("log.level"), v.GetString("log.format"))
			if err := common.ValidateWorkerConfig(v); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			chConn, err := chrepo.Open(ctx, v.GetString("clickhouse_dsn"))
			if err != nil {
				return fmt.Errorf("clickhouse: %w", err)
			}
			defer chConn.Close()

			repo := chrepo.NewRepo(chConn)
			if err := repo.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("clickhouse schema: %w", err)
			}

			w, err := worker.New(worker.Config{
				RedisURL: v.GetString("redis_url"),
				Stream:   v.GetString("redis_stream"),
				Group:    v.GetString("redis_group"),
				Consumer: v.GetString("consumer"),
			}, repo)
			if err != nil {
				return err
			}
			defer w.Close()

			slog.Info("ingest worker started", "stream", v.GetString("redis_stream"))
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml), supports top-level 'worker:' section")
	cmd.Flags().String("redis_url", "", "redis url holding the event stream")
	cmd.Flags().String("redis_stream", "analytics:events", "redis stream key")
	cmd.Flags().String("redis_group", "analytics-worker", "consumer group name")
	cmd.Flags().String("consumer", "", "consumer name; empty derives one from the process start time")
	cmd.Flags().String("clickhouse_dsn", "clickhouse://localhost:9000/analytics", "clickhouse dsn for inserts")
	cmd.Flags().String("log.level", "info", "log level: debug|info|warn|error")
	cmd.Flags().String("log.format", "console", "log format: console|json")
	_ = viper.BindPFlags(cmd.Flags())
	return cmd
}
