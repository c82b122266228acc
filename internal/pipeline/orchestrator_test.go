package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/adapter/firms"
	"github.com/couchcryptid/canopix-alert-service/internal/adapter/fusion"
	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/couchcryptid/canopix-alert-service/internal/observability"
	"github.com/couchcryptid/canopix-alert-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stubs ---

type stubSource struct {
	name    string
	alerts  []domain.Alert
	stats   domain.ParseStats
	err     error
	panics  bool
	summary *domain.Summary
	days    atomic.Int64
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, days int) ([]domain.Alert, domain.ParseStats, error) {
	s.days.Store(int64(days))
	if s.panics {
		panic("parser exploded")
	}
	return s.alerts, s.stats, s.err
}

func (s *stubSource) Status(err error) domain.SourceStatus {
	switch {
	case err == nil:
		return domain.StatusLive
	case errors.Is(err, domain.ErrEmptyResult):
		return domain.StatusNoData
	default:
		return domain.StatusError
	}
}

type summarySource struct {
	stubSource
	summaryErr error
}

func (s *summarySource) FetchSummary(context.Context) (*domain.Summary, error) {
	return s.summary, s.summaryErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func newOrchestrator(src pipeline.AlertSource) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(src, discardLogger(), newTestMetrics())
}

const firmsCSV = "latitude,longitude,bright_ti4,acq_date,acq_time,satellite,confidence,frp\n" +
	"9.5,77.1,340,2026-03-10,0815,N,h,12.4\n" +
	"26.14,91.74,320,2026-03-10,0700,N,n,5.1\n"

func newFirmsClient(url string) *firms.Client {
	return firms.NewClient(firms.Options{BaseURL: url, MapKey: "k", Timeout: time.Second},
		clockwork.NewFakeClock(), discardLogger())
}

func assertFallback(t *testing.T, result domain.SourceResult) {
	t.Helper()
	require.Len(t, result.Alerts, 6)
	assert.Equal(t, domain.FallbackAlerts(), result.Alerts)
}

// --- tests ---

func TestOrchestrator_FetchAlerts_FirmsLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, firmsCSV)
	}))
	defer srv.Close()

	result := newOrchestrator(newFirmsClient(srv.URL)).FetchAlerts(context.Background(), 2)

	assert.Equal(t, firms.Name, result.Source)
	assert.Equal(t, domain.StatusLive, result.Status)
	assert.Equal(t, 2, result.DayRange)
	require.Len(t, result.Alerts, 2)
	assert.Equal(t, "Western Ghats, Kerala", result.Alerts[0].Region)
	assert.Equal(t, 2, result.Stats.Rows)
}

func TestOrchestrator_FetchAlerts_FirmsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Invalid MAP_KEY.", http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := newOrchestrator(newFirmsClient(srv.URL)).FetchAlerts(context.Background(), 1)

	assert.Equal(t, domain.StatusKeyInactive, result.Status)
	assertFallback(t, result)
}

func TestOrchestrator_FetchAlerts_FirmsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	result := newOrchestrator(newFirmsClient(srv.URL)).FetchAlerts(context.Background(), 1)

	assert.Equal(t, domain.StatusError, result.Status)
	assertFallback(t, result)
}

func TestOrchestrator_FetchAlerts_FirmsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	result := newOrchestrator(newFirmsClient(srv.URL)).FetchAlerts(context.Background(), 1)

	assert.Equal(t, domain.StatusError, result.Status)
	assertFallback(t, result)
}

func TestOrchestrator_FetchAlerts_FirmsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "latitude,longitude,bright_ti4,confidence\n")
	}))
	defer srv.Close()

	result := newOrchestrator(newFirmsClient(srv.URL)).FetchAlerts(context.Background(), 1)

	assert.Equal(t, domain.StatusNoData, result.Status)
	assertFallback(t, result)
}

func TestOrchestrator_FetchAlerts_FusionFailuresCollapse(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) }},
		{"empty", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, `{"alerts":[]}`) }},
		{"garbage", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, `<html>`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := fusion.NewClient(srv.URL, time.Second, clockwork.NewFakeClock(), discardLogger())
			result := newOrchestrator(c).FetchAlerts(context.Background(), 1)

			assert.Equal(t, fusion.Name, result.Source)
			assert.Equal(t, domain.StatusError, result.Status)
			assertFallback(t, result)
		})
	}
}

func TestOrchestrator_FetchAlerts_Static(t *testing.T) {
	result := newOrchestrator(pipeline.StaticSource{}).FetchAlerts(context.Background(), 1)

	assert.Equal(t, pipeline.StaticSourceName, result.Source)
	assert.Equal(t, domain.StatusFallback, result.Status)
	assertFallback(t, result)
}

func TestOrchestrator_FetchAlerts_EmptyWithoutError(t *testing.T) {
	src := &stubSource{name: "stub", alerts: []domain.Alert{}}

	result := newOrchestrator(src).FetchAlerts(context.Background(), 1)

	assert.Equal(t, domain.StatusNoData, result.Status)
	assertFallback(t, result)
}

func TestOrchestrator_FetchAlerts_RecoversPanic(t *testing.T) {
	src := &stubSource{name: "stub", panics: true}

	result := newOrchestrator(src).FetchAlerts(context.Background(), 1)

	assert.Equal(t, domain.StatusError, result.Status)
	assertFallback(t, result)
}

func TestOrchestrator_FetchAlerts_ClampsDayRange(t *testing.T) {
	src := &stubSource{name: "stub", alerts: []domain.Alert{{Title: "x"}}}
	orch := newOrchestrator(src)

	result := orch.FetchAlerts(context.Background(), 30)
	assert.Equal(t, 10, result.DayRange)
	assert.Equal(t, int64(10), src.days.Load())

	result = orch.FetchAlerts(context.Background(), 0)
	assert.Equal(t, 1, result.DayRange)
	assert.Equal(t, int64(1), src.days.Load())
}

func TestOrchestrator_FetchAlerts_FallbackIsFreshCopy(t *testing.T) {
	orch := newOrchestrator(&stubSource{name: "stub", err: errors.New("down")})

	first := orch.FetchAlerts(context.Background(), 1)
	first.Alerts[0].Title = "mutated"
	second := orch.FetchAlerts(context.Background(), 1)

	assert.Equal(t, "Western Ghats South", second.Alerts[0].Title)
}

func TestOrchestrator_FetchSummary(t *testing.T) {
	want := &domain.Summary{ScanDate: "2026-03-10", TotalAlerts: 4}

	ok := &summarySource{stubSource: stubSource{name: "fusion", summary: want}}
	assert.Equal(t, want, newOrchestrator(ok).FetchSummary(context.Background()))

	failing := &summarySource{stubSource: stubSource{name: "fusion"}, summaryErr: errors.New("offline")}
	assert.Nil(t, newOrchestrator(failing).FetchSummary(context.Background()))

	assert.Nil(t, newOrchestrator(pipeline.StaticSource{}).FetchSummary(context.Background()))
}
