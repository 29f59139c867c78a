// Package checker implements the KPI integrity validation engine: ten
// cross-consistency checks over materialized KPI row-sets, driven by the
// threshold configuration and accumulated into a single result sequence.
package checker

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"MetricsGuard/internal/config"
	"MetricsGuard/internal/domain"
	"MetricsGuard/internal/logging"
)

// Checker owns the configuration and the append-only sequence of results for
// one validation run. Construct one per run and discard it after the summary
// is taken. Check methods are safe to call concurrently; appends to the
// result sequence are serialized.
type Checker struct {
	cfg        config.Config
	violations []string
	log        *slog.Logger
	checkDate  time.Time
	now        func() time.Time

	mu      sync.Mutex
	results []domain.CheckResult
}

// Option adjusts Checker construction.
type Option func(*Checker) error

// WithLogger attaches a logger for per-check progress lines.
func WithLogger(log *slog.Logger) Option {
	return func(c *Checker) error {
		c.log = log
		return nil
	}
}

// WithClock overrides the timestamp source, for deterministic output.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) error {
		c.now = now
		return nil
	}
}

// Strict makes construction fail when the document has schema violations
// instead of recording them for later inspection.
func Strict() Option {
	return func(c *Checker) error {
		if len(c.violations) > 0 {
			return &config.ValidationError{Violations: c.violations}
		}
		return nil
	}
}

// New builds a Checker over a raw configuration document. The document is
// schema-validated up front; violations are kept inspectable via Violations
// and only abort construction under Strict.
func New(doc map[string]any, opts ...Option) (*Checker, error) {
	c := &Checker{
		cfg:        config.Parse(doc),
		violations: config.ValidateSchema(doc),
		log:        logging.New("info"),
		now:        time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.checkDate = c.now()
	return c, nil
}

// Violations returns the configuration schema violations found at
// construction, one message per violation.
func (c *Checker) Violations() []string {
	out := make([]string, len(c.violations))
	copy(out, c.violations)
	return out
}

// Results returns a snapshot of every result accumulated so far.
func (c *Checker) Results() []domain.CheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CheckResult, len(c.results))
	copy(out, c.results)
	return out
}

// record appends a batch to the run's result sequence and returns it.
func (c *Checker) record(batch []domain.CheckResult) []domain.CheckResult {
	c.mu.Lock()
	c.results = append(c.results, batch...)
	c.mu.Unlock()
	if len(batch) > 0 {
		c.log.Debug("check recorded", "check", batch[0].CheckName, "results", len(batch))
	}
	return batch
}

func (c *Checker) threshold(key string) config.Threshold {
	return c.cfg.Threshold(key)
}

func passWhen(ok bool) domain.CheckStatus {
	if ok {
		return domain.StatusPass
	}
	return domain.StatusFail
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
