// Package source selects the configured alert source.
package source

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/canopix-alert-service/internal/adapter/firms"
	"github.com/couchcryptid/canopix-alert-service/internal/adapter/fusion"
	"github.com/couchcryptid/canopix-alert-service/internal/config"
	"github.com/couchcryptid/canopix-alert-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

// New builds the AlertSource named by cfg.Source.
func New(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) (pipeline.AlertSource, error) {
	switch cfg.Source {
	case config.SourceFIRMS:
		if cfg.FIRMSMapKey == "" {
			logger.Warn("FIRMS_MAP_KEY is not set, requests will be rejected and the fallback dataset served")
		}
		return firms.NewClient(firms.Options{
			BaseURL: cfg.FIRMSBaseURL,
			MapKey:  cfg.FIRMSMapKey,
			Sensor:  cfg.FIRMSSensor,
			BBox:    cfg.FIRMSBBox,
			Timeout: cfg.FetchTimeout,
		}, clock, logger), nil
	case config.SourceFusion:
		return fusion.NewClient(cfg.FusionBaseURL, cfg.FetchTimeout, clock, logger), nil
	case config.SourceStatic:
		return pipeline.StaticSource{}, nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
