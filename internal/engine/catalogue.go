package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/couchcryptid/canopix-alert-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Scene is one monitored site with the indicators from its latest scan.
type Scene struct {
	Code         string // state code used in alert IDs
	Region       string
	Lat, Lon     float64
	Protected    bool
	Age          time.Duration // time since the detection
	CarbonTonnes float64
	Observations []string
	Detect       func() (Detection, bool)
}

// DefaultScenes is the demonstration scan covering each detector.
func DefaultScenes() []Scene {
	return []Scene{
		{
			Code: "MH", Region: "Western Ghats, Maharashtra", Lat: 17.9, Lon: 73.7,
			Protected: true, Age: 2 * time.Hour, CarbonTonnes: 5400,
			Observations: []string{
				"NDVI anomaly: -0.42 drop in dense evergreen canopy",
				"Sentinel-1 SAR coherence loss: -5.8 dB (structural collapse)",
				"Estimated canopy height loss: 12 m (GEDI-fused estimate)",
				"Spatial cluster confirmed across 3 consecutive Sentinel tracks",
			},
			Detect: func() (Detection, bool) {
				return DetectDeforestation(DeforestationInput{
					DeltaNDVI: -0.42, DeltaEVI: -0.31,
					SARVHChangeDB: -5.8, SARVVChangeDB: -3.2,
					PersistenceWindows: 3, AreaHa: 42.5, InProtectedArea: true,
				})
			},
		},
		{
			Code: "RJ", Region: "Aravallis, Rajasthan", Lat: 27.3, Lon: 76.2,
			Age: 5 * time.Hour, CarbonTonnes: 120,
			Observations: []string{
				"Bare soil index spike: +0.38",
				"Estimated excavation volume: 45,000 m³ (stereo-pair analysis)",
				"Spectral match: open-pit granite/marble signature",
				"Dihedral radar return increase: vertical pit walls detected",
			},
			Detect: func() (Detection, bool) {
				return DetectMining(MiningInput{
					BSI: 0.46, BSIChange: 0.38, WaterAdjacent: true, DihedralIncrease: true,
					DistToRoadM: 350, AreaHa: 8.2,
				})
			},
		},
		{
			Code: "JK", Region: "Jhelum Basin, J&K", Lat: 34.1, Lon: 74.8,
			Age: 26 * time.Hour, CarbonTonnes: 0,
			Observations: []string{
				"Riverbed geomorphology change: high turbidity detected",
				"Sentinel-2 SWIR: fresh sand bar disturbance",
				"Major river channel alteration within 10 days",
				"Recurring heavy machinery heat signatures (VIIRS-fused)",
			},
			Detect: func() (Detection, bool) {
				return DetectMining(MiningInput{
					BSI: 0.21, BSIChange: 0.12, WaterAdjacent: true,
					DistToRoadM: 2500, AreaHa: 3.5,
				})
			},
		},
		{
			Code: "CI", Region: "Bastar, Chhattisgarh", Lat: 21.2, Lon: 82.5,
			Protected: true, Age: 40 * time.Minute, CarbonTonnes: 2100,
			Observations: []string{
				"Fire radiative power: 185 MW (extreme intensity)",
				"VIIRS confirmed: thermal anomaly at 375 m resolution",
				"Spread direction: northeast (est. 4.2 km/h)",
				"Sentinel-5P carbon monoxide spike",
			},
			Detect: func() (Detection, bool) {
				return DetectFire(FireInput{
					VIIRSConfidence: "high", FRP: 185, PersistencePasses: 3,
					SpreadRateHa6h: 80, InProtectedArea: true, AreaHa: 120,
				})
			},
		},
	}
}

// SensorStatus reports the feeds the engine fuses.
var SensorStatus = map[string]string{
	"sentinel_1": "active",
	"sentinel_2": "active",
	"viirs":      "active",
}

// Catalogue runs the detectors over a fixed set of scenes.
type Catalogue struct {
	clock  clockwork.Clock
	scenes []Scene
}

// NewCatalogue creates a Catalogue. Nil scenes selects DefaultScenes.
func NewCatalogue(clock clockwork.Clock, scenes []Scene) *Catalogue {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if scenes == nil {
		scenes = DefaultScenes()
	}
	return &Catalogue{clock: clock, scenes: scenes}
}

// Features returns one GeoJSON feature per scene that passes its detector,
// in scene order. Alert IDs are CAN-<scan date>-<code>-<scene number>.
func (c *Catalogue) Features() []domain.Feature {
	now := c.clock.Now().UTC()
	scanDate := now.Format("20060102")

	features := make([]domain.Feature, 0, len(c.scenes))
	for i, s := range c.scenes {
		d, ok := s.Detect()
		if !ok {
			continue
		}
		protected := s.Protected
		features = append(features, domain.Feature{
			Type: "Feature",
			Geometry: domain.Geometry{
				Type:        "Point",
				Coordinates: []float64{s.Lon, s.Lat},
			},
			Properties: domain.FeatureProperties{
				AlertID:              fmt.Sprintf("CAN-%s-%s-%03d", scanDate, s.Code, i+1),
				AlertType:            d.Type,
				Severity:             string(d.Severity),
				ConfidenceScore:      d.Confidence,
				Centroid:             domain.Centroid{Lat: s.Lat, Lon: s.Lon},
				AreaAffectedHa:       d.AreaHa,
				DetectionDate:        now.Add(-s.Age).Format(time.RFC3339),
				Region:               s.Region,
				ProtectedArea:        &protected,
				CarbonEstimateTonnes: s.CarbonTonnes,
				Observations:         slices.Clone(s.Observations),
			},
		})
	}
	return features
}

// Summary totals the current features.
func (c *Catalogue) Summary() domain.Summary {
	features := c.Features()
	summary := domain.Summary{
		ScanDate:     c.clock.Now().UTC().Format(time.DateOnly),
		TotalAlerts:  len(features),
		SensorStatus: make(map[string]string, len(SensorStatus)),
	}
	for _, f := range features {
		summary.TotalAreaHa += f.Properties.AreaAffectedHa
		summary.TotalCarbonTonnes += f.Properties.CarbonEstimateTonnes
	}
	for k, v := range SensorStatus {
		summary.SensorStatus[k] = v
	}
	return summary
}
