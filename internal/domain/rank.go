package domain

import (
	"cmp"
	"slices"
)

// MaxRankedAlerts caps how many FIRMS hotspots survive ranking.
const MaxRankedAlerts = 50

// RankByBrightness sorts alerts by brightness, hottest first, keeps at most
// limit of them and assigns positional IDs. Ties keep their input order.
// The input slice is not modified.
func RankByBrightness(alerts []Alert, limit int) []Alert {
	ranked := slices.Clone(alerts)
	slices.SortStableFunc(ranked, func(a, b Alert) int {
		return cmp.Compare(b.Brightness, a.Brightness)
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return AssignPositions(ranked)
}

// AssignPositions returns a copy of alerts in the same order with IDs 0..N-1.
func AssignPositions(alerts []Alert) []Alert {
	out := make([]Alert, len(alerts))
	for i, a := range alerts {
		a.ID = i
		out[i] = a
	}
	return out
}
