// Package daemon runs the lifecycle engine periodically on a cron schedule.
package daemon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jnylund/vartija/internal/engine"
	"github.com/jnylund/vartija/internal/logger"
)

// ParamsFunc builds run parameters for one tick. The daemon supplies now so
// each run gets a single consistent clock reading.
type ParamsFunc func(now time.Time) engine.Params

// Options configures the daemon.
type Options struct {
	// Schedule is a standard 5-field cron expression.
	Schedule string
	// MetricsAddr, when non-empty, serves Prometheus metrics on /metrics.
	MetricsAddr string
}

// Daemon triggers lifecycle runs until its context is cancelled.
type Daemon struct {
	engine  *engine.Engine
	params  ParamsFunc
	opts    Options
	metrics *Metrics
	log     logger.Logger
}

// New creates a daemon around an engine.
func New(eng *engine.Engine, params ParamsFunc, opts Options, log logger.Logger) *Daemon {
	return &Daemon{
		engine:  eng,
		params:  params,
		opts:    opts,
		metrics: NewMetrics(),
		log:     log,
	}
}

// Run blocks until ctx is cancelled. Each cron tick executes one full
// lifecycle run; ticks never overlap because the engine is invoked from the
// single cron goroutine.
func (d *Daemon) Run(ctx context.Context) error {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(d.opts.Schedule, func() { d.tick(ctx) }); err != nil {
		return fmt.Errorf("invalid daemon schedule %q: %w", d.opts.Schedule, err)
	}

	var server *http.Server
	if d.opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", d.metrics.Handler())
		server = &http.Server{Addr: d.opts.MetricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				d.log.Error("metrics listener failed", err)
			}
		}()
		d.log.WithField("addr", d.opts.MetricsAddr).Info("serving metrics")
	}

	d.log.WithField("schedule", d.opts.Schedule).Info("daemon started")
	scheduler.Start()

	<-ctx.Done()

	stopped := scheduler.Stop()
	<-stopped.Done()
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}

	d.log.Info("daemon stopped")
	return nil
}

func (d *Daemon) tick(ctx context.Context) {
	now := time.Now().UTC()
	report, err := d.engine.Run(ctx, d.params(now))
	d.metrics.Observe(report, err)
	if err != nil {
		d.log.Error("lifecycle run failed", err)
	}
}
