package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"MetricsGuard/internal/config"
	"MetricsGuard/internal/demo"
	"MetricsGuard/internal/domain"
	"MetricsGuard/internal/infrastructure/scheduler"
	"MetricsGuard/internal/infrastructure/slack"
	"MetricsGuard/internal/infrastructure/storage"
	"MetricsGuard/internal/logging"
	"MetricsGuard/internal/ports"
	"MetricsGuard/internal/usecase"
)

// Options carry the command-line settings into application wiring.
type Options struct {
	ConfigPath  string
	DatabaseURL string
	Export      string
	OutputDir   string
	Interval    time.Duration
}

// Application wires configuration, adapters, and the validation pipeline.
type Application struct {
	pipeline  *usecase.Pipeline
	scheduler ports.Scheduler
	db        *sql.DB
	log       *slog.Logger
}

// New builds a runnable application instance. Without a database URL the
// synthetic demo dataset backs the run; without a Slack webhook notification
// is skipped.
func New(opts Options, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New("info")
	}

	doc := config.Load(opts.ConfigPath, baseLogger.With("component", "config"))
	env := config.LoadEnv()
	applyOverrides(doc, opts)

	cfg := config.Parse(doc)

	a := &Application{
		scheduler: scheduler.NewDailyScheduler(opts.Interval),
		log:       baseLogger,
	}

	var source ports.RowSource
	dsn := opts.DatabaseURL
	if dsn == "" {
		dsn = env.DatabaseDSN
	}
	if dsn != "" {
		db, err := storage.Open(dsn)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.db = db
		source = storage.NewPostgresSource(db)
		baseLogger.Info("using postgres row source")
	} else {
		source = demo.NewSource()
		baseLogger.Info("no database configured, using synthetic demo dataset")
	}

	var notifier ports.Notifier
	if env.SlackWebhookURL != "" {
		notifier = slack.NewNotifier(env.SlackWebhookURL, cfg.Alerting.SlackChannel)
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:    source,
		Notifier:  notifier,
		ConfigDoc: doc,
		Reporting: cfg.Reporting,
		Out:       os.Stdout,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return a, nil
}

// applyOverrides maps command-line settings onto the raw document so the
// schema validation and typed parse see the effective configuration.
func applyOverrides(doc map[string]any, opts Options) {
	reporting, ok := doc["reporting"].(map[string]any)
	if !ok {
		reporting = map[string]any{}
		doc["reporting"] = reporting
	}
	if opts.OutputDir != "" {
		reporting["output_dir"] = opts.OutputDir
	}
	switch opts.Export {
	case "", "all":
	case "csv", "json", "html":
		reporting["formats"] = []any{opts.Export}
	}
}

// Run performs a single validation pass.
func (a *Application) Run(ctx context.Context) (domain.Summary, error) {
	return a.pipeline.Run(ctx)
}

// RunDaemon executes the pipeline on the scheduler interval until the
// context is canceled.
func (a *Application) RunDaemon(ctx context.Context) error {
	err := a.scheduler.Start(ctx, func(t time.Time) {
		a.log.Info("scheduled validation run", "at", t.Format(time.RFC3339))
		if _, err := a.pipeline.Run(ctx); err != nil {
			a.log.Error("validation run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}

// Close releases held connections.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
