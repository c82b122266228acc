// Package domain models environmental alerts detected over the Indian
// subcontinent and the heuristics that classify them.
//
// # Data Sources
//
// Alerts come from one of three interchangeable sources:
//
//   - NASA FIRMS (Fire Information for Resource Management System) area CSV
//     feed, e.g. VIIRS S-NPP near-real-time hotspots. One row per thermal
//     anomaly; the feed has no alert type so every row is an "Active Fire".
//   - The CANOPIX multi-sensor fusion engine, which serves GeoJSON features
//     for deforestation, illegal mining and fire alerts. The engine is
//     authoritative for region, severity and impact fields.
//   - A static, hand-curated fallback dataset (see [FallbackAlerts]).
//
// # FIRMS Conventions
//
// Columns used: latitude, longitude, bright_ti4 (VIIRS I-4 brightness
// temperature in Kelvin; MODIS feeds name it "brightness"), confidence,
// acq_date (YYYY-MM-DD, UTC), acq_time (HHMM, UTC, leading zeros may be
// dropped: "930" = 09:30), frp (fire radiative power, MW) and satellite.
//
// Confidence is categorical for VIIRS ("low", "nominal", "high" or the
// single-letter forms) and a 0–100 integer for MODIS. Categories map to
// 25, 55 and 85 respectively.
//
// # Heuristics
//
// Severity (first match wins):
//
//	HIGH    confidence >= 80 OR brightness >= 330 K
//	MEDIUM  confidence >= 50 OR brightness >= 300 K
//	LOW     otherwise
//
// Impact (linear model, half-up rounding):
//
//	area_ha   = max(10,  round((brightness - 250) * 3.5 + confidence * 1.5))
//	co2_tonne = max(100, round(area_ha * 14.5))
//
// Region names come from an ordered list of overlapping bounding boxes in
// regions.yaml; the first box containing the point wins. See [Classify].
//
// # IDs
//
// Alert IDs are dense positional integers assigned after ranking, so they
// are only meaningful within a single result. The fusion engine's own
// identifier is kept in [Alert.SourceID].
package domain
