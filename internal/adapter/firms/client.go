package firms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Name identifies this source in results, logs and metrics.
const Name = "firms"

const (
	DefaultBaseURL = "https://firms.modaps.eosdis.nasa.gov/api/area/csv"
	DefaultSensor  = "VIIRS_SNPP_NRT"

	maxBodyBytes = 8 << 20
	maxErrorBody = 512
)

// Options configures the FIRMS area API client.
type Options struct {
	BaseURL string
	MapKey  string
	Sensor  string
	BBox    string // "west,south,east,north"
	Timeout time.Duration
}

// Client fetches active-fire detections from the NASA FIRMS area CSV API.
type Client struct {
	opts       Options
	httpClient *http.Client
	parser     *Parser
	logger     *slog.Logger
}

// NewClient creates a FIRMS client. Empty options fall back to the public
// endpoint, the VIIRS SNPP sensor and the India bounding box.
func NewClient(opts Options, clock clockwork.Clock, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Sensor == "" {
		opts.Sensor = DefaultSensor
	}
	if opts.BBox == "" {
		opts.BBox = domain.IndiaBBox
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		parser: NewParser(clock),
		logger: logger,
	}
}

func (c *Client) Name() string { return Name }

// Fetch downloads the last days of detections and parses them. days is
// expected to be clamped by the caller. A response with no usable rows
// returns domain.ErrEmptyResult along with the parse stats.
func (c *Client) Fetch(ctx context.Context, days int) ([]domain.Alert, domain.ParseStats, error) {
	body, err := c.download(ctx, days)
	if err != nil {
		return nil, domain.ParseStats{}, err
	}

	alerts, stats := c.parser.Parse(body)
	if stats.Skipped > 0 || stats.Truncated {
		c.logger.Debug("firms rows dropped",
			"rows", stats.Rows,
			"skipped", stats.Skipped,
			"truncated", stats.Truncated,
		)
	}
	if len(alerts) == 0 {
		return nil, stats, domain.ErrEmptyResult
	}
	return alerts, stats, nil
}

// Status maps a Fetch outcome to the status reported alongside the alerts.
func (c *Client) Status(err error) domain.SourceStatus {
	var authErr *domain.AuthError
	switch {
	case err == nil:
		return domain.StatusLive
	case errors.As(err, &authErr):
		return domain.StatusKeyInactive
	case errors.Is(err, domain.ErrEmptyResult):
		return domain.StatusNoData
	default:
		return domain.StatusError
	}
}

func (c *Client) requestURL(days int) string {
	// The bbox commas are part of the path and must not be escaped.
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		c.opts.BaseURL,
		url.PathEscape(c.opts.MapKey),
		url.PathEscape(c.opts.Sensor),
		c.opts.BBox,
		strconv.Itoa(days),
	)
}

func (c *Client) download(ctx context.Context, days int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(days), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.TransportError{Op: "firms request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", domain.ErrorForStatus(resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &domain.TransportError{Op: "read firms response", Err: err}
	}
	return string(body), nil
}
