package pipeline

import (
	"context"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
)

// AlertSource is one upstream telemetry provider. Implementations perform a
// single attempt per call and never substitute data themselves.
type AlertSource interface {
	Name() string
	// Fetch returns the parsed alerts for the last days. A successful call
	// with no usable records returns domain.ErrEmptyResult.
	Fetch(ctx context.Context, days int) ([]domain.Alert, domain.ParseStats, error)
	// Status maps the outcome of Fetch to the status reported to consumers.
	Status(err error) domain.SourceStatus
}

// SummarySource is implemented by sources that can report a scan overview.
type SummarySource interface {
	FetchSummary(ctx context.Context) (*domain.Summary, error)
}

// StaticSourceName identifies the built-in fallback dataset.
const StaticSourceName = "static"

// StaticSource serves the fallback dataset as if it were live.
type StaticSource struct{}

func (StaticSource) Name() string { return StaticSourceName }

func (StaticSource) Fetch(context.Context, int) ([]domain.Alert, domain.ParseStats, error) {
	alerts := domain.FallbackAlerts()
	return alerts, domain.ParseStats{Rows: len(alerts)}, nil
}

func (StaticSource) Status(err error) domain.SourceStatus {
	if err != nil {
		return domain.StatusError
	}
	return domain.StatusFallback
}
