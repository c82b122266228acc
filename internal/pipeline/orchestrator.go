package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/couchcryptid/canopix-alert-service/internal/observability"
)

// Orchestrator runs one fetch against the configured source and degrades to
// the fallback dataset on any failure. It holds no state between calls.
type Orchestrator struct {
	source  AlertSource
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewOrchestrator creates an Orchestrator for the given source.
func NewOrchestrator(source AlertSource, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// SourceName returns the name of the wrapped source.
func (o *Orchestrator) SourceName() string { return o.source.Name() }

// FetchAlerts never fails: a result always carries exactly one alert
// sequence, either live data or the fallback dataset with a degraded status.
func (o *Orchestrator) FetchAlerts(ctx context.Context, days int) domain.SourceResult {
	days = domain.ClampDayRange(days)
	name := o.source.Name()
	start := time.Now()

	alerts, stats, err := o.fetch(ctx, days)
	if err == nil && len(alerts) == 0 {
		err = domain.ErrEmptyResult
	}
	status := o.source.Status(err)

	o.metrics.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	o.metrics.FetchesTotal.WithLabelValues(name, string(status)).Inc()
	if stats.Skipped > 0 {
		o.metrics.RecordsSkipped.WithLabelValues(name).Add(float64(stats.Skipped))
	}

	if err != nil {
		o.logger.Warn("alert source degraded, serving fallback dataset",
			"source", name,
			"status", status,
			"error", err,
		)
		alerts = domain.FallbackAlerts()
	}

	return domain.SourceResult{
		Source:   name,
		Status:   status,
		DayRange: days,
		Alerts:   alerts,
		Stats:    stats,
	}
}

// fetch shields the orchestrator from a panicking source.
func (o *Orchestrator) fetch(ctx context.Context, days int) (alerts []domain.Alert, stats domain.ParseStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			alerts, err = nil, fmt.Errorf("source %s panicked: %v", o.source.Name(), r)
		}
	}()
	return o.source.Fetch(ctx, days)
}

// FetchSummary returns nil when the source has no summary or the request
// fails. There is no fallback summary.
func (o *Orchestrator) FetchSummary(ctx context.Context) *domain.Summary {
	ss, ok := o.source.(SummarySource)
	if !ok {
		return nil
	}
	summary, err := ss.FetchSummary(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			o.logger.Warn("summary unavailable", "source", o.source.Name(), "error", err)
		}
		return nil
	}
	return summary
}
