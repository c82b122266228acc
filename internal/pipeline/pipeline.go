package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/couchcryptid/canopix-alert-service/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Sink receives every committed snapshot.
type Sink interface {
	Publish(ctx context.Context, snap domain.Snapshot) error
}

// Service ties the orchestrator to the feed: it stamps each fetch, commits
// the newest result and exports it to the optional sink.
type Service struct {
	orch    *Orchestrator
	feed    *Feed
	sink    Sink
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Service. sink may be nil when snapshot export is disabled.
func New(orch *Orchestrator, sink Sink, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		orch:    orch,
		feed:    NewFeed(),
		sink:    sink,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a snapshot has been committed,
// or an error describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no alert snapshot has been loaded yet")
	}
	return nil
}

// Refresh fetches alerts for the last days and commits them to the feed.
// The snapshot is always returned; committed is false when a newer fetch
// was committed first or ctx was cancelled during the fetch, in which case
// it is neither served nor exported.
func (s *Service) Refresh(ctx context.Context, days int) (snap domain.Snapshot, committed bool) {
	seq := s.feed.Begin()
	result := s.orch.FetchAlerts(ctx, days)

	snap = domain.Snapshot{
		ID:           uuid.NewString(),
		Seq:          seq,
		FetchedAt:    s.clock.Now().UTC(),
		SourceResult: result,
	}

	if err := ctx.Err(); err != nil {
		s.logger.Debug("discarding snapshot of cancelled fetch", "seq", seq, "source", result.Source, "error", err)
		return snap, false
	}

	if !s.feed.Commit(snap) {
		s.metrics.StaleCommits.Inc()
		s.logger.Debug("discarding stale snapshot", "seq", seq, "source", result.Source)
		return snap, false
	}

	s.metrics.AlertsServed.Set(float64(len(result.Alerts)))
	s.ready.Store(true)
	s.logger.Info("alert snapshot committed",
		"snapshot_id", snap.ID,
		"seq", seq,
		"source", result.Source,
		"status", result.Status,
		"alerts", len(result.Alerts),
		"skipped", result.Stats.Skipped,
	)

	s.publish(ctx, snap)
	return snap, true
}

func (s *Service) publish(ctx context.Context, snap domain.Snapshot) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, snap); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Error("publish snapshot failed", "snapshot_id", snap.ID, "error", err)
		return
	}
	s.metrics.SnapshotsPublished.Inc()
}

// Latest returns the most recently committed snapshot.
func (s *Service) Latest() (domain.Snapshot, bool) {
	return s.feed.Latest()
}

// Summary returns the source's scan overview, or nil if it has none.
func (s *Service) Summary(ctx context.Context) *domain.Summary {
	return s.orch.FetchSummary(ctx)
}

// Run refreshes immediately and then every interval until the context is
// cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration, days int) error {
	if interval <= 0 {
		return errors.New("refresh interval must be positive")
	}

	s.logger.Info("refresher started", "interval", interval, "day_range", days, "source", s.orch.SourceName())
	s.metrics.RefresherRunning.Set(1)
	defer s.metrics.RefresherRunning.Set(0)

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	s.Refresh(ctx, days)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.Refresh(ctx, days)
		}
	}
}
