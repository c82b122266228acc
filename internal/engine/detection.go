// Package engine is the multi-sensor detection engine behind the fused alert
// API. Detectors score satellite-derived indicators in stages and either
// reject a candidate or classify it into a severity band.
package engine

import (
	"math"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
)

// Detection is a candidate that passed every gate of a detector.
type Detection struct {
	Type       string
	Confidence float64 // 0 to 1, two decimals
	Severity   domain.Severity
	AreaHa     float64
	Immediate  bool // fire only: dispatch without waiting for the next scan
}

// DeforestationInput holds the change indicators for one forest patch.
type DeforestationInput struct {
	DeltaNDVI          float64
	DeltaEVI           float64
	SARVHChangeDB      float64
	SARVVChangeDB      float64
	PersistenceWindows int
	AreaHa             float64
	InProtectedArea    bool
}

// DetectDeforestation requires both spectral and SAR structural loss over at
// least one hectare.
func DetectDeforestation(in DeforestationInput) (Detection, bool) {
	var confidence float64
	var spectralLoss, structuralLoss bool

	switch {
	case in.DeltaNDVI < -0.15 && in.DeltaEVI < -0.12:
		spectralLoss = true
		confidence += 0.30
	case in.DeltaNDVI < -0.10 && in.DeltaEVI < -0.08:
		spectralLoss = true
		confidence += 0.18
	}

	if in.SARVHChangeDB < -3.0 && in.SARVVChangeDB < -2.0 {
		structuralLoss = true
		confidence += 0.30
	}

	// Single-date events are heavily penalised.
	if in.PersistenceWindows >= 2 {
		confidence += 0.20
	} else {
		confidence *= 0.5
	}

	if in.AreaHa < 1.0 {
		return Detection{}, false
	}
	if in.AreaHa >= 5.0 {
		confidence += 0.10
	}
	if in.AreaHa >= 50.0 {
		confidence += 0.20
	}

	if !spectralLoss || !structuralLoss {
		return Detection{}, false
	}

	if in.InProtectedArea {
		confidence += 0.10
	}

	confidence = normalize(confidence)
	severity, ok := band(confidence, 0.75, 0.55, 0.35)
	if !ok {
		return Detection{}, false
	}
	return Detection{
		Type:       domain.TypeDeforestation,
		Confidence: confidence,
		Severity:   severity,
		AreaHa:     in.AreaHa,
	}, true
}

// MiningInput holds the indicators for one suspected excavation site.
type MiningInput struct {
	BSI                  float64 // bare soil index
	BSIChange            float64
	WaterAdjacent        bool
	DihedralIncrease     bool // SAR double-bounce from vertical pit walls
	DistToRoadM          float64
	InLicensedConcession bool
	AreaHa               float64
}

// DetectMining never alerts on licensed concessions.
func DetectMining(in MiningInput) (Detection, bool) {
	if in.BSI <= 0.15 || in.BSIChange <= 0.10 {
		return Detection{}, false
	}
	confidence := 0.25

	if in.WaterAdjacent {
		confidence += 0.15
	}
	if in.DihedralIncrease {
		confidence += 0.15
	}

	switch {
	case in.DistToRoadM < 500:
		confidence += 0.15
	case in.DistToRoadM < 2000:
		confidence += 0.08
	default:
		confidence -= 0.10
	}

	if in.InLicensedConcession {
		return Detection{}, false
	}
	confidence += 0.10

	confidence = normalize(confidence)
	severity, ok := band(confidence, 0.70, 0.50, 0.30)
	if !ok {
		return Detection{}, false
	}
	return Detection{
		Type:       domain.TypeIllegalMining,
		Confidence: confidence,
		Severity:   severity,
		AreaHa:     in.AreaHa,
	}, true
}

// FireInput holds the thermal observations for one fire cluster.
type FireInput struct {
	VIIRSConfidence   string // high, nominal or low
	FRP               float64
	PersistencePasses int
	SpreadRateHa6h    float64
	InProtectedArea   bool
	AreaHa            float64
}

// DetectFire grades severity by spread rate rather than confidence.
// Protected areas escalate one band and always dispatch immediately.
func DetectFire(in FireInput) (Detection, bool) {
	var confidence float64
	switch in.VIIRSConfidence {
	case "high":
		confidence = 0.70
	case "nominal":
		confidence = 0.50
	case "low":
		confidence = 0.25
	}

	switch {
	case in.FRP >= 100:
		confidence += 0.20
	case in.FRP >= 50:
		confidence += 0.12
	case in.FRP >= 10:
		confidence += 0.05
	default:
		confidence -= 0.10
	}

	switch {
	case in.PersistencePasses >= 3:
		confidence += 0.15
	case in.PersistencePasses == 2:
		confidence += 0.08
	default:
		confidence *= 0.6
	}

	severity := domain.SeverityMedium
	immediate := false
	switch {
	case in.SpreadRateHa6h > 500:
		severity = domain.SeverityCritical
		immediate = true
	case in.SpreadRateHa6h > 100:
		severity = domain.SeverityHigh
	}

	if in.InProtectedArea {
		immediate = true
		switch severity {
		case domain.SeverityMedium:
			severity = domain.SeverityHigh
		case domain.SeverityHigh:
			severity = domain.SeverityCritical
		}
	}

	confidence = normalize(confidence)
	if confidence < 0.35 {
		return Detection{}, false
	}
	return Detection{
		Type:       domain.TypeActiveFire,
		Confidence: confidence,
		Severity:   severity,
		AreaHa:     in.AreaHa,
		Immediate:  immediate,
	}, true
}

// normalize rounds to two decimals and caps at 1.
func normalize(confidence float64) float64 {
	return math.Min(math.Round(confidence*100)/100, 1)
}

// band classifies a confidence against descending thresholds. Scores below
// floor are rejected.
func band(confidence, critical, high, floor float64) (domain.Severity, bool) {
	switch {
	case confidence >= critical:
		return domain.SeverityCritical, true
	case confidence >= high:
		return domain.SeverityHigh, true
	case confidence >= floor:
		return domain.SeverityMedium, true
	default:
		return "", false
	}
}
