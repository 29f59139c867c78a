package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MetricsGuard/internal/app"
	"MetricsGuard/internal/logging"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the thresholds YAML file")
		dbURL      = flag.String("db-url", "", "PostgreSQL connection URL (falls back to $DATABASE_DSN, then demo data)")
		export     = flag.String("export", "all", "report format to export: csv, json, html, or all")
		outputDir  = flag.String("output", "", "report output directory (overrides config)")
		daemon     = flag.Bool("daemon", false, "keep running and re-validate on an interval")
		interval   = flag.Duration("interval", 24*time.Hour, "validation interval in daemon mode")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	logger := logging.New(*logLevel)

	application, err := app.New(app.Options{
		ConfigPath:  *configPath,
		DatabaseURL: *dbURL,
		Export:      *export,
		OutputDir:   *outputDir,
		Interval:    *interval,
	}, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *daemon {
		if err := application.RunDaemon(ctx); err != nil {
			logger.Error("daemon stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	summary, err := application.Run(ctx)
	if err != nil {
		logger.Error("validation run failed", "error", err)
		os.Exit(1)
	}

	switch {
	case summary.CriticalFailures > 0:
		logger.Error("critical failures found, immediate attention required", "count", summary.CriticalFailures)
		os.Exit(1)
	case summary.Failed > 0:
		logger.Warn("non-critical failures found", "count", summary.Failed)
	default:
		logger.Info("all integrity checks passed")
	}
}
