package commands

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jnylund/vartija/internal/daemon"
	"github.com/jnylund/vartija/internal/engine"
)

func newDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run lifecycle passes on a cron schedule until interrupted",
		Long: `Starts a long-running process that executes a full lifecycle run on
the configured cron schedule (daemon.schedule). When daemon.metrics_addr
is set, Prometheus counters are served on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := newLogger()
			eng, err := buildEngine(ctx, log)
			if err != nil {
				return err
			}

			d := daemon.New(eng, func(now time.Time) engine.Params {
				return runParams(now, cfg.Run.DryRun)
			}, daemon.Options{
				Schedule:    cfg.Daemon.Schedule,
				MetricsAddr: cfg.Daemon.MetricsAddr,
			}, log)

			return d.Run(ctx)
		},
	}
}
