package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day range accepted by FIRMS area queries.
const (
	MinDayRange = 1
	MaxDayRange = 10
)

// Relative time labels.
const (
	LabelRecent  = "Recent"
	LabelJustNow = "Just now"
)

const (
	minAreaHa    = 10
	minCO2Tonnes = 100

	// Confidence used when a numeric confidence cannot be parsed.
	defaultConfidence = 50
)

// leadingIntRe matches the integer prefix of a numeric confidence, so "37.5" reads as 37.
var leadingIntRe = regexp.MustCompile(`^[+-]?\d+`)

// ClampDayRange bounds a requested day range to what FIRMS accepts.
func ClampDayRange(days int) int {
	switch {
	case days < MinDayRange:
		return MinDayRange
	case days > MaxDayRange:
		return MaxDayRange
	default:
		return days
	}
}

// DeriveSeverity maps confidence (0–100) and brightness (K) to a tier.
// Either signal alone is sufficient to reach a tier.
func DeriveSeverity(confidence, intensity float64) Severity {
	switch {
	case confidence >= 80 || intensity >= 330:
		return SeverityHigh
	case confidence >= 50 || intensity >= 300:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// EstimateImpact derives the affected area (ha) and CO2 released (t) from
// brightness and confidence. Both results are floored, never errors.
func EstimateImpact(intensity, confidence float64) (area, co2 float64) {
	area = roundHalfUp((intensity-250)*3.5 + confidence*1.5)
	if math.IsNaN(area) || area < minAreaHa {
		area = minAreaHa
	}
	co2 = roundHalfUp(area * 14.5)
	if co2 < minCO2Tonnes {
		co2 = minCO2Tonnes
	}
	return area, co2
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// NormalizeConfidence maps a FIRMS confidence field to 0–100. VIIRS sends
// lower-case categories, MODIS sends integers. Category matching is
// case-sensitive.
func NormalizeConfidence(raw string) float64 {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "high", "h":
		return 85
	case "nominal", "n":
		return 55
	case "low", "l":
		return 25
	}

	m := leadingIntRe.FindString(raw)
	if m == "" {
		return defaultConfidence
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return defaultConfidence
	}
	return float64(v)
}

// RelativeTime renders the age of t at now as "Just now", "Nh ago" or "Nd ago".
// Timestamps in the future read as "Just now".
func RelativeTime(now, t time.Time) string {
	hours := math.Floor(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return LabelJustNow
	case hours < 24:
		return fmt.Sprintf("%dh ago", int(hours))
	default:
		return fmt.Sprintf("%dd ago", int(math.Floor(hours/24)))
	}
}

// ParseAcquisition combines a FIRMS acq_date (YYYY-MM-DD) and acq_time
// (HHMM, zero padding optional) into a UTC timestamp.
func ParseAcquisition(date, hhmm string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, fmt.Errorf("parse acquisition: empty date")
	}
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		hhmm = "0000"
	}
	if len(hhmm) < 4 {
		hhmm = strings.Repeat("0", 4-len(hhmm)) + hhmm
	}

	t, err := time.ParseInLocation("2006-01-02 1504", date+" "+hhmm[:4], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse acquisition: %w", err)
	}
	return t, nil
}

// AcquisitionLabel is RelativeTime over ParseAcquisition, falling back to
// "Recent" when the date cannot be read.
func AcquisitionLabel(now time.Time, date, hhmm string) string {
	t, err := ParseAcquisition(date, hhmm)
	if err != nil {
		return LabelRecent
	}
	return RelativeTime(now, t)
}
