package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harun/saku/internal/config"
	"github.com/harun/saku/internal/history"
	"github.com/harun/saku/internal/logger"
	"github.com/harun/saku/internal/metrics"
	"github.com/harun/saku/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the saku service",
	Long: `Run the saku service in the foreground: the cron scheduler, the
invocation history recorder, the Prometheus metrics endpoint and a
config file watcher. Stops cleanly on SIGINT or SIGTERM.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lg, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()
		reg.SetRecorder(store)
	}

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		m := metrics.New()
		reg.SetMetrics(m)

		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			log.Info().Str("addr", cfg.Metrics.Addr).Msg("Metrics endpoint listening")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	var sched *scheduler.Service
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.NewService(reg, cfg.Scheduler.JobsPath)
		if err != nil {
			return fmt.Errorf("failed to initialize scheduler: %w", err)
		}
		sched.Start()
	}

	// Reload the log level when the config file changes on disk.
	loader := config.NewLoader(cfgFile)
	watcher, err := config.NewWatcher(loader.GetConfigPath(), func() {
		updated, err := loader.Load()
		if err != nil {
			log.Warn().Err(err).Msg("Config reload failed")
			return
		}
		logger.SetLevel(updated.Logging.Level)
		log.Info().Str("level", updated.Logging.Level).Msg("Config reloaded")
	})
	if err != nil {
		log.Warn().Err(err).Msg("Config watcher unavailable")
	} else if err := watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start config watcher")
	} else {
		defer watcher.Stop()
	}

	log.Info().
		Int("tools", len(reg.Names())).
		Str("workspace", cfg.WorkspacePath).
		Msg("Saku started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")

	if sched != nil {
		sched.Stop()
	}
	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}
	return nil
}
