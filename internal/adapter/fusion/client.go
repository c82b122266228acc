package fusion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Name identifies this source in results, logs and metrics.
const Name = "fusion"

const (
	DefaultBaseURL = "http://localhost:8000"

	maxErrorBody = 512
)

// Client reads pre-curated alerts from the multi-sensor fusion engine.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mapper     *Mapper
	logger     *slog.Logger
}

// NewClient creates a fusion engine client.
func NewClient(baseURL string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		mapper: NewMapper(clock),
		logger: logger,
	}
}

func (c *Client) Name() string { return Name }

// Fetch returns the engine's current alerts in upstream order. The engine
// has no notion of a day range, so days is ignored. An empty alert list is
// reported as domain.ErrEmptyResult.
func (c *Client) Fetch(ctx context.Context, _ int) ([]domain.Alert, domain.ParseStats, error) {
	var fc domain.FeatureCollection
	if err := c.getJSON(ctx, "/alerts", &fc); err != nil {
		return nil, domain.ParseStats{}, err
	}

	stats := domain.ParseStats{Rows: len(fc.Alerts)}
	if len(fc.Alerts) == 0 {
		return nil, stats, domain.ErrEmptyResult
	}
	c.logger.Debug("fusion alerts fetched", "count", len(fc.Alerts))
	return c.mapper.Map(fc.Alerts), stats, nil
}

// Status collapses every failure to domain.StatusError.
func (c *Client) Status(err error) domain.SourceStatus {
	if err != nil {
		return domain.StatusError
	}
	return domain.StatusV2Engine
}

// FetchSummary returns the engine's scan overview.
func (c *Client) FetchSummary(ctx context.Context) (*domain.Summary, error) {
	var s domain.Summary
	if err := c.getJSON(ctx, "/summary", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "fusion " + path + " request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.ErrorForStatus(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
