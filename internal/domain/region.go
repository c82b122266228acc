package domain

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// India bounding box. FIRMS rows outside it are dropped.
const (
	IndiaMinLat = 6.0
	IndiaMaxLat = 36.0
	IndiaMinLon = 68.0
	IndiaMaxLon = 98.0

	// IndiaBBox is the FIRMS area parameter: west,south,east,north.
	IndiaBBox = "68,6,98,36"
)

// InIndia reports whether the point lies inside the India bounding box (inclusive).
func InIndia(lat, lon float64) bool {
	return lat >= IndiaMinLat && lat <= IndiaMaxLat && lon >= IndiaMinLon && lon <= IndiaMaxLon
}

// Bound is an inclusive interval. A nil end is unbounded.
type Bound struct {
	Min *float64 `yaml:"min" json:"min,omitempty"`
	Max *float64 `yaml:"max" json:"max,omitempty"`
}

// Contains reports whether v lies inside the interval.
func (b Bound) Contains(v float64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

// RegionZone is one classification rule: a named latitude/longitude box.
type RegionZone struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Lat  Bound  `yaml:"lat" json:"lat"`
	Lon  Bound  `yaml:"lon" json:"lon"`
}

// Contains reports whether the point lies inside the zone's box.
func (z RegionZone) Contains(lat, lon float64) bool {
	return z.Lat.Contains(lat) && z.Lon.Contains(lon)
}

type regionTable struct {
	Fallback string       `yaml:"fallback"`
	Zones    []RegionZone `yaml:"zones"`
}

//go:embed regions.yaml
var regionsYAML []byte

// regions is loaded once at process start and never mutated.
var regions = mustLoadRegions(regionsYAML)

func mustLoadRegions(data []byte) regionTable {
	t, err := loadRegions(data)
	if err != nil {
		panic(fmt.Sprintf("domain: load region rules: %v", err))
	}
	return t
}

func loadRegions(data []byte) (regionTable, error) {
	var t regionTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return regionTable{}, fmt.Errorf("parse region rules: %w", err)
	}
	if t.Fallback == "" {
		return regionTable{}, errors.New("region rules: fallback label is required")
	}
	for i, z := range t.Zones {
		if z.ID == "" || z.Name == "" {
			return regionTable{}, fmt.Errorf("region rules: zone %d is missing id or name", i)
		}
	}
	return t, nil
}

// Classify maps a coordinate to a human-readable region name. The first
// zone containing the point wins; points outside every zone get the
// country-level label.
func Classify(lat, lon float64) string {
	for _, z := range regions.Zones {
		if z.Contains(lat, lon) {
			return z.Name
		}
	}
	return regions.Fallback
}

// RegionZones returns the classification rules in evaluation order.
func RegionZones() []RegionZone {
	out := make([]RegionZone, len(regions.Zones))
	copy(out, regions.Zones)
	return out
}

// FallbackRegion is the label given to points outside every zone.
func FallbackRegion() string {
	return regions.Fallback
}
