package pipeline_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/couchcryptid/canopix-alert-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
	err   error
}

func (s *recordingSink) Publish(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.snaps = append(s.snaps, snap)
	return nil
}

func (s *recordingSink) published() []domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Snapshot(nil), s.snaps...)
}

// gatedSource blocks each Fetch until its gate is released, so tests can
// control completion order.
type gatedSource struct {
	mu    sync.Mutex
	gates []chan string
}

func (g *gatedSource) Name() string { return "gated" }

func (g *gatedSource) Status(err error) domain.SourceStatus {
	if err != nil {
		return domain.StatusError
	}
	return domain.StatusLive
}

func (g *gatedSource) Fetch(ctx context.Context, _ int) ([]domain.Alert, domain.ParseStats, error) {
	g.mu.Lock()
	gate := make(chan string)
	g.gates = append(g.gates, gate)
	g.mu.Unlock()

	select {
	case title := <-gate:
		return []domain.Alert{{Title: title}}, domain.ParseStats{Rows: 1}, nil
	case <-ctx.Done():
		return nil, domain.ParseStats{}, ctx.Err()
	}
}

func (g *gatedSource) gate(i int) chan string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i >= len(g.gates) {
		return nil
	}
	return g.gates[i]
}

func waitForGate(t *testing.T, g *gatedSource, i int) chan string {
	t.Helper()
	var gate chan string
	require.Eventually(t, func() bool {
		gate = g.gate(i)
		return gate != nil
	}, time.Second, time.Millisecond)
	return gate
}

func TestService_Refresh_CommitsAndPublishes(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	sink := &recordingSink{}
	src := &stubSource{name: "stub", alerts: []domain.Alert{{Title: "a"}, {Title: "b"}}}
	svc := pipeline.New(newOrchestrator(src), sink, clock, discardLogger(), newTestMetrics())

	require.Error(t, svc.CheckReadiness(context.Background()))

	snap, committed := svc.Refresh(context.Background(), 3)

	require.True(t, committed)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, uint64(1), snap.Seq)
	assert.Equal(t, clock.Now(), snap.FetchedAt)
	assert.Equal(t, domain.StatusLive, snap.Status)
	assert.Equal(t, 3, snap.DayRange)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, snap.ID, latest.ID)
	require.NoError(t, svc.CheckReadiness(context.Background()))

	published := sink.published()
	require.Len(t, published, 1)
	assert.Equal(t, snap.ID, published[0].ID)
}

func TestService_Refresh_DegradedStillCommits(t *testing.T) {
	src := &stubSource{name: "stub", err: errors.New("connection refused")}
	svc := pipeline.New(newOrchestrator(src), nil, clockwork.NewFakeClock(), discardLogger(), newTestMetrics())

	snap, committed := svc.Refresh(context.Background(), 1)

	require.True(t, committed)
	assert.Equal(t, domain.StatusError, snap.Status)
	assert.Len(t, snap.Alerts, 6)
}

func TestService_Refresh_CancelledKeepsCommittedSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, firmsCSV)
	}))
	defer srv.Close()

	sink := &recordingSink{}
	svc := pipeline.New(newOrchestrator(newFirmsClient(srv.URL)), sink, clockwork.NewFakeClock(), discardLogger(), newTestMetrics())

	live, committed := svc.Refresh(context.Background(), 1)
	require.True(t, committed)
	require.Equal(t, domain.StatusLive, live.Status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, committed = svc.Refresh(ctx, 1)
	assert.False(t, committed)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, live.ID, latest.ID)
	assert.Equal(t, domain.StatusLive, latest.Status)
	assert.Equal(t, "Western Ghats, Kerala", latest.Alerts[0].Region)

	published := sink.published()
	require.Len(t, published, 1)
	assert.Equal(t, live.ID, published[0].ID)
}

func TestService_Refresh_PublishErrorIsNotFatal(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	src := &stubSource{name: "stub", alerts: []domain.Alert{{Title: "a"}}}
	svc := pipeline.New(newOrchestrator(src), sink, clockwork.NewFakeClock(), discardLogger(), newTestMetrics())

	_, committed := svc.Refresh(context.Background(), 1)

	assert.True(t, committed)
	_, ok := svc.Latest()
	assert.True(t, ok)
}

func TestService_Refresh_LastIssuedRequestWins(t *testing.T) {
	src := &gatedSource{}
	sink := &recordingSink{}
	svc := pipeline.New(newOrchestrator(src), sink, clockwork.NewFakeClock(), discardLogger(), newTestMetrics())

	type outcome struct {
		snap      domain.Snapshot
		committed bool
	}
	slow := make(chan outcome, 1)
	go func() {
		snap, ok := svc.Refresh(context.Background(), 1)
		slow <- outcome{snap, ok}
	}()
	slowGate := waitForGate(t, src, 0)

	fast := make(chan outcome, 1)
	go func() {
		snap, ok := svc.Refresh(context.Background(), 1)
		fast <- outcome{snap, ok}
	}()
	fastGate := waitForGate(t, src, 1)

	fastGate <- "second request"
	second := <-fast
	require.True(t, second.committed)

	slowGate <- "first request"
	first := <-slow
	assert.False(t, first.committed)
	assert.Less(t, first.snap.Seq, second.snap.Seq)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, "second request", latest.Alerts[0].Title)

	published := sink.published()
	require.Len(t, published, 1)
	assert.Equal(t, second.snap.ID, published[0].ID)
}

func TestService_Run_RefreshesOnInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sink := &recordingSink{}
	src := &stubSource{name: "stub", alerts: []domain.Alert{{Title: "a"}}}
	svc := pipeline.New(newOrchestrator(src), sink, clock, discardLogger(), newTestMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx, time.Minute, 2) }()

	require.Eventually(t, func() bool { return len(sink.published()) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return len(sink.published()) == 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}

	published := sink.published()
	assert.Less(t, published[0].Seq, published[1].Seq)
}

func TestService_Run_RejectsNonPositiveInterval(t *testing.T) {
	svc := pipeline.New(newOrchestrator(pipeline.StaticSource{}), nil, clockwork.NewFakeClock(), discardLogger(), newTestMetrics())
	require.Error(t, svc.Run(context.Background(), 0, 1))
}

func TestService_Summary(t *testing.T) {
	want := &domain.Summary{ScanDate: "2026-03-10"}
	src := &summarySource{stubSource: stubSource{name: "fusion", summary: want}}
	svc := pipeline.New(newOrchestrator(src), nil, nil, discardLogger(), newTestMetrics())

	assert.Equal(t, want, svc.Summary(context.Background()))
}
