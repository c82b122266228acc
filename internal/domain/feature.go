package domain

// FeatureCollection is the fusion engine's GET /alerts payload.
type FeatureCollection struct {
	Alerts []Feature `json:"alerts"`
}

// Feature is a GeoJSON feature describing one fused alert.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// Geometry is a GeoJSON point; coordinates are [lon, lat].
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Centroid is the alert centre as the engine reports it.
type Centroid struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FeatureProperties carries the engine's authoritative alert fields.
type FeatureProperties struct {
	AlertID              string   `json:"alert_id"`
	AlertType            string   `json:"alert_type"`
	Severity             string   `json:"severity"`
	ConfidenceScore      float64  `json:"confidence_score"` // 0–1
	Centroid             Centroid `json:"centroid"`
	AreaAffectedHa       float64  `json:"area_affected_ha"`
	DetectionDate        string   `json:"detection_date"` // ISO-8601
	Region               string   `json:"region"`
	ProtectedArea        *bool    `json:"protected_area,omitempty"`
	CarbonEstimateTonnes float64  `json:"carbon_estimate_tonnes"`
	Observations         []string `json:"observations,omitempty"`
}
