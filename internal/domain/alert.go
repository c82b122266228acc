package domain

import "time"

// Severity is the coarse urgency tier of an alert.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL" // only ever supplied by the fusion engine
)

// Rank orders severities for comparison. Unknown values rank below LOW.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Alert types known to the sources. The set is open: the fusion engine may
// send others and they are passed through untouched.
const (
	TypeActiveFire    = "Active Fire"
	TypeDeforestation = "Deforestation"
	TypeIllegalMining = "Illegal Mining"
)

// Alert is the canonical, normalized record handed to the presentation layer.
// Alerts are values: a fetch builds a new slice and nothing mutates it afterwards.
type Alert struct {
	ID           int      `json:"id"`
	SourceID     string   `json:"source_id,omitempty"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Region       string   `json:"region"`
	Severity     Severity `json:"severity"`
	Confidence   float64  `json:"confidence"` // 0–100
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Area         float64  `json:"area"` // hectares
	CO2          float64  `json:"co2"`  // tonnes
	Time         string   `json:"time"` // relative label, see RelativeTime
	Observations []string `json:"observations"`

	// FIRMS-specific fields.
	Brightness float64 `json:"brightness,omitempty"`
	FRP        float64 `json:"frp,omitempty"`
	Satellite  string  `json:"satellite,omitempty"`
	AcqDate    string  `json:"acqDate,omitempty"`
	AcqTime    string  `json:"acqTime,omitempty"`

	// Fusion-specific fields.
	InProtectedArea *bool `json:"in_protected_area,omitempty"`
}

// SourceStatus tags a SourceResult with how its alerts were obtained.
type SourceStatus string

const (
	StatusLive        SourceStatus = "live"         // FIRMS returned usable rows
	StatusV2Engine    SourceStatus = "v2_engine"    // fusion engine returned alerts
	StatusKeyInactive SourceStatus = "key_inactive" // FIRMS rejected the MAP_KEY (401)
	StatusNoData      SourceStatus = "no_data"      // request succeeded, nothing survived parsing
	StatusError       SourceStatus = "error"        // transport or upstream failure
	StatusFallback    SourceStatus = "fallback"     // static dataset selected by configuration
)

// Degraded reports whether the status means the fallback dataset was substituted.
func (s SourceStatus) Degraded() bool {
	switch s {
	case StatusKeyInactive, StatusNoData, StatusError:
		return true
	default:
		return false
	}
}

// ParseStats describes how many upstream records were looked at and dropped.
type ParseStats struct {
	Rows      int  `json:"rows"`      // data records considered
	Skipped   int  `json:"skipped"`   // malformed, non-numeric or out-of-bounds records
	Truncated bool `json:"truncated"` // the row cap was hit and later rows were ignored
}

// SourceResult is the unit handed to the presentation layer: exactly one
// alert sequence per status.
type SourceResult struct {
	Source   string       `json:"source"`
	Status   SourceStatus `json:"status"`
	DayRange int          `json:"day_range,omitempty"`
	Alerts   []Alert      `json:"alerts"`
	Stats    ParseStats   `json:"stats"`
}

// Snapshot is a SourceResult stamped by the feed that accepted it.
type Snapshot struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	FetchedAt time.Time `json:"fetched_at"`
	SourceResult
}

// Summary is the fusion engine's scan overview. It has no fallback.
type Summary struct {
	ScanDate          string            `json:"scan_date"`
	TotalAlerts       int               `json:"total_alerts"`
	TotalAreaHa       float64           `json:"total_area_ha"`
	TotalCarbonTonnes float64           `json:"total_carbon_tonnes"`
	SensorStatus      map[string]string `json:"sensor_status"`
}
