package fusion

import (
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// detectionLayouts are tried in order. Timestamps without a zone are UTC.
var detectionLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Mapper converts fused GeoJSON features into canonical alerts. Region,
// severity and impact figures are taken from the engine verbatim.
type Mapper struct {
	clock clockwork.Clock
}

// NewMapper creates a Mapper. The clock supplies "now" for relative time labels.
func NewMapper(clock clockwork.Clock) *Mapper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Mapper{clock: clock}
}

// Map keeps upstream order and count. Each alert gets its position as ID;
// the engine's alert_id is kept as SourceID.
func (m *Mapper) Map(features []domain.Feature) []domain.Alert {
	now := m.clock.Now()
	alerts := make([]domain.Alert, 0, len(features))
	for _, f := range features {
		alerts = append(alerts, mapFeature(f.Properties, now))
	}
	return domain.AssignPositions(alerts)
}

func mapFeature(p domain.FeatureProperties, now time.Time) domain.Alert {
	observations := []string{}
	if len(p.Observations) > 0 {
		observations = slices.Clone(p.Observations)
	}

	var protected *bool
	if p.ProtectedArea != nil {
		v := *p.ProtectedArea
		protected = &v
	}

	return domain.Alert{
		SourceID:        p.AlertID,
		Title:           p.AlertType,
		Type:            p.AlertType,
		Region:          p.Region,
		Severity:        domain.Severity(p.Severity),
		Confidence:      scaleConfidence(p.ConfidenceScore),
		Lat:             p.Centroid.Lat,
		Lon:             p.Centroid.Lon,
		Area:            p.AreaAffectedHa,
		CO2:             p.CarbonEstimateTonnes,
		Time:            detectionLabel(now, p.DetectionDate),
		Observations:    observations,
		InProtectedArea: protected,
	}
}

// scaleConfidence turns a 0–1 score into a percentage.
func scaleConfidence(score float64) float64 {
	return score * 100
}

func detectionLabel(now time.Time, raw string) string {
	t, ok := parseDetectionDate(raw)
	if !ok {
		return domain.LabelRecent
	}
	return domain.RelativeTime(now, t)
}

func parseDetectionDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range detectionLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
