package firms

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// MaxRows bounds how many data rows of a feed are parsed.
const MaxRows = 200

const (
	defaultBrightness = 300
	defaultSatellite  = "VIIRS"
)

// columns holds the index of each recognised header, -1 when absent.
type columns struct {
	lat, lon, bright, conf, date, time, frp, sat int
}

func resolveColumns(header []string) columns {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	lookup := func(names ...string) int {
		for _, n := range names {
			if i, ok := idx[n]; ok {
				return i
			}
		}
		return -1
	}
	return columns{
		lat:    lookup("latitude"),
		lon:    lookup("longitude"),
		bright: lookup("bright_ti4", "brightness"),
		conf:   lookup("confidence"),
		date:   lookup("acq_date"),
		time:   lookup("acq_time"),
		frp:    lookup("frp"),
		sat:    lookup("satellite"),
	}
}

// minFields is the shortest row that still has every column needed for classification.
func (c columns) minFields() int {
	return max(c.lat, c.lon, c.bright, c.conf) + 1
}

// Parser turns FIRMS area CSV into ranked alerts.
type Parser struct {
	clock clockwork.Clock
}

// NewParser creates a Parser. The clock supplies "now" for relative time labels.
func NewParser(clock clockwork.Clock) *Parser {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Parser{clock: clock}
}

// Parse reads at most MaxRows data rows, drops rows that are malformed or
// outside India, and returns the brightest MaxRankedAlerts with positional IDs.
// A feed with no header, no data rows or no coordinate columns yields no alerts.
func (p *Parser) Parse(body string) ([]domain.Alert, domain.ParseStats) {
	var stats domain.ParseStats

	r := csv.NewReader(strings.NewReader(strings.TrimSpace(body)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return []domain.Alert{}, stats
	}
	cols := resolveColumns(header)
	if cols.lat < 0 || cols.lon < 0 {
		return []domain.Alert{}, stats
	}

	now := p.clock.Now()
	alerts := make([]domain.Alert, 0, MaxRows)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if stats.Rows == MaxRows {
			stats.Truncated = true
			break
		}
		stats.Rows++

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			stats.Skipped++
			continue
		}
		if err != nil {
			break
		}

		alert, ok := p.parseRow(record, cols, now)
		if !ok {
			stats.Skipped++
			continue
		}
		alerts = append(alerts, alert)
	}

	return domain.RankByBrightness(alerts, domain.MaxRankedAlerts), stats
}

func (p *Parser) parseRow(record []string, cols columns, now time.Time) (domain.Alert, bool) {
	if len(record) < cols.minFields() {
		return domain.Alert{}, false
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[cols.lat]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[cols.lon]), 64)
	if errLat != nil || errLon != nil || math.IsNaN(lat) || math.IsNaN(lon) {
		return domain.Alert{}, false
	}
	if !domain.InIndia(lat, lon) {
		return domain.Alert{}, false
	}

	brightness := float64(defaultBrightness)
	if v, ok := floatField(record, cols.bright); ok {
		brightness = v
	}
	confidence := domain.NormalizeConfidence(field(record, cols.conf, "50"))
	frp, _ := floatField(record, cols.frp)
	acqDate := field(record, cols.date, "")
	acqTime := field(record, cols.time, "")

	region := domain.Classify(lat, lon)
	area, co2 := domain.EstimateImpact(brightness, confidence)

	return domain.Alert{
		Title:        region,
		Type:         domain.TypeActiveFire,
		Region:       region,
		Severity:     domain.DeriveSeverity(confidence, brightness),
		Confidence:   confidence,
		Lat:          lat,
		Lon:          lon,
		Area:         area,
		CO2:          co2,
		Time:         domain.AcquisitionLabel(now, acqDate, acqTime),
		Observations: []string{},
		Brightness:   brightness,
		FRP:          frp,
		Satellite:    field(record, cols.sat, defaultSatellite),
		AcqDate:      acqDate,
		AcqTime:      acqTime,
	}, true
}

// field returns the trimmed value at idx, or def when the column is absent.
func field(record []string, idx int, def string) string {
	if idx < 0 || idx >= len(record) {
		return def
	}
	return strings.TrimSpace(record[idx])
}

func floatField(record []string, idx int) (float64, bool) {
	s := field(record, idx, "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
