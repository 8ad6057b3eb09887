// Package watcher polls the field-service API on a cron schedule, recomputes
// the analytics summary and alerts the dispatch desk when the backlog needs
// attention.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/analytics"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/metrics"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/notify"
)

// OrderFetcher supplies the current order snapshot.
type OrderFetcher interface {
	FetchOrders(ctx context.Context) ([]model.ServiceOrder, error)
}

// Config holds watcher settings.
type Config struct {
	// Schedule is a cron expression (robfig/cron syntax, @every accepted).
	Schedule string
	// AwaitingPartsAlert triggers an alert when at least this many orders
	// are stuck awaiting parts. Zero disables that check.
	AwaitingPartsAlert int
	// ReportPath is the directory for xlsx reports; empty disables them.
	ReportPath string
	// ReportSchedule is the cron expression for report generation.
	ReportSchedule string
}

// Watcher runs the periodic check.
type Watcher struct {
	fetcher  OrderFetcher
	notifier notify.Notifier
	cfg      Config
	logger   *zerolog.Logger
	cron     *cron.Cron
}

// New creates a watcher. notifier may be nil when alerting is not
// configured; ticks then only log and report.
func New(fetcher OrderFetcher, notifier notify.Notifier, cfg Config, logger *zerolog.Logger) *Watcher {
	return &Watcher{
		fetcher:  fetcher,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start registers the cron entries and runs until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.cfg.Schedule, func() { w.Tick(ctx) }); err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", w.cfg.Schedule, err)
	}

	if w.cfg.ReportPath != "" && w.cfg.ReportSchedule != "" {
		if _, err := w.cron.AddFunc(w.cfg.ReportSchedule, func() { w.WriteReport(ctx) }); err != nil {
			return fmt.Errorf("invalid report schedule %q: %w", w.cfg.ReportSchedule, err)
		}
	}

	w.logger.Info().Str("schedule", w.cfg.Schedule).Msg("ops watcher started")
	w.cron.Start()

	<-ctx.Done()
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
	return nil
}

// Tick fetches a fresh snapshot, recomputes the summary and alerts when
// thresholds are crossed. A fetch failure is logged and skipped; the next
// tick starts from scratch.
func (w *Watcher) Tick(ctx context.Context) {
	orders, err := w.fetcher.FetchOrders(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("order fetch failed; skipping tick")
		return
	}

	metrics.IncAnalyticsRun()
	summary := analytics.Compute(orders)

	w.logger.Info().
		Int("total", summary.TotalOrders).
		Int("completion_rate", summary.CompletionRate).
		Int("urgent_pending", summary.UrgentPending).
		Int("awaiting_parts", summary.AwaitingParts).
		Msg("analytics snapshot")

	if w.notifier == nil {
		return
	}

	if summary.UrgentPending > 0 {
		w.alert(ctx, fmt.Sprintf(
			"⚠️ %d urgent order(s) still open (of %d total, %d%% completed)",
			summary.UrgentPending, summary.TotalOrders, summary.CompletionRate,
		))
	}
	if w.cfg.AwaitingPartsAlert > 0 && summary.AwaitingParts >= w.cfg.AwaitingPartsAlert {
		w.alert(ctx, fmt.Sprintf(
			"📦 %d order(s) awaiting parts — check the parts pipeline",
			summary.AwaitingParts,
		))
	}
}

// WriteReport drops a dated xlsx summary into the report directory.
func (w *Watcher) WriteReport(ctx context.Context) {
	orders, err := w.fetcher.FetchOrders(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("order fetch failed; skipping report")
		return
	}

	metrics.IncAnalyticsRun()
	summary := analytics.Compute(orders)

	if err := os.MkdirAll(w.cfg.ReportPath, 0o755); err != nil {
		w.logger.Error().Err(err).Msg("create report directory failed")
		return
	}

	path := filepath.Join(w.cfg.ReportPath,
		fmt.Sprintf("service-report_%s.xlsx", time.Now().Format("20060102")))
	f, err := os.Create(path)
	if err != nil {
		w.logger.Error().Err(err).Msg("create report file failed")
		return
	}
	defer f.Close()

	if err := analytics.WriteExcel(summary, f); err != nil {
		w.logger.Error().Err(err).Msg("write report failed")
		return
	}
	w.logger.Info().Str("path", path).Msg("report written")
}

func (w *Watcher) alert(ctx context.Context, text string) {
	if err := w.notifier.Alert(ctx, text); err != nil {
		metrics.IncAlertSent("error")
		w.logger.Error().Err(err).Msg("dispatcher alert failed")
		return
	}
	metrics.IncAlertSent("ok")
}
