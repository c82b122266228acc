package domain

// fallbackAlerts covers each major forest region. Served whenever live data
// is unavailable; FIRMS-only fields carry neutral placeholders.
var fallbackAlerts = []Alert{
	{ID: 0, Title: "Western Ghats South", Region: "Kerala – Tamil Nadu Border", Lat: 9.52, Lon: 77.14, Brightness: 340, Confidence: 94, Time: "1h ago", Area: 620, CO2: 9800, Severity: SeverityHigh},
	{ID: 1, Title: "Assam Corridor", Region: "Assam, Northeast India", Lat: 26.14, Lon: 91.74, Brightness: 330, Confidence: 90, Time: "3h ago", Area: 480, CO2: 7200, Severity: SeverityHigh},
	{ID: 2, Title: "Sundarbans Edge", Region: "West Bengal", Lat: 21.94, Lon: 89.18, Brightness: 315, Confidence: 73, Time: "6h ago", Area: 310, CO2: 4600, Severity: SeverityHigh},
	{ID: 3, Title: "Bastar Forest", Region: "Chhattisgarh", Lat: 19.12, Lon: 81.95, Brightness: 308, Confidence: 67, Time: "9h ago", Area: 275, CO2: 3900, Severity: SeverityMedium},
	{ID: 4, Title: "Andaman North", Region: "Andaman Islands", Lat: 12.92, Lon: 92.84, Brightness: 295, Confidence: 52, Time: "13h ago", Area: 180, CO2: 2400, Severity: SeverityMedium},
	{ID: 5, Title: "Arunachal Edge", Region: "Arunachal Pradesh", Lat: 27.08, Lon: 93.62, Brightness: 285, Confidence: 44, Time: "18h ago", Area: 140, CO2: 1800, Severity: SeverityLow},
}

// FallbackAlerts returns a fresh copy of the static dataset.
func FallbackAlerts() []Alert {
	out := make([]Alert, len(fallbackAlerts))
	for i, a := range fallbackAlerts {
		a.Type = TypeActiveFire
		a.FRP = 0
		a.Satellite = ""
		a.AcqDate = ""
		a.AcqTime = ""
		a.Observations = []string{}
		out[i] = a
	}
	return out
}
