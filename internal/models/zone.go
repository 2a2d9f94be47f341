package models

// ZoneDemand is one resource need line of a disaster zone. Several lines may
// share a LocationID.
type ZoneDemand struct {
	LocationID    string `json:"location_id"`
	ResourceType  string `json:"resource_type"`
	Amount        int    `json:"amount"`
	SeverityLevel int    `json:"severity_level"`
}

// Zone aggregates the demand lines of one location.
type Zone struct {
	LocationID string         `json:"location_id"`
	Severity   int            `json:"severity"`
	Required   map[string]int `json:"required"`
}

// GroupZones folds demand lines into zones, in order of first appearance.
// Severity is the maximum across a zone's lines; a repeated resource type
// keeps the last amount.
func GroupZones(lines []ZoneDemand) []Zone {
	var zones []Zone
	index := make(map[string]int)
	for _, l := range lines {
		i, ok := index[l.LocationID]
		if !ok {
			index[l.LocationID] = len(zones)
			zones = append(zones, Zone{
				LocationID: l.LocationID,
				Severity:   l.SeverityLevel,
				Required:   map[string]int{},
			})
			i = len(zones) - 1
		}
		z := &zones[i]
		if l.SeverityLevel > z.Severity {
			z.Severity = l.SeverityLevel
		}
		if l.ResourceType != "" {
			z.Required[l.ResourceType] = l.Amount
		}
	}
	return zones
}

// ValidateZoneDemands checks that every line references a graph node and
// carries non-negative figures.
func ValidateZoneDemands(g *Graph, lines []ZoneDemand) error {
	for _, l := range lines {
		if l.LocationID == "" {
			return NewDataError("zone", l.LocationID, "location_id", ErrMissingField)
		}
		if !g.Has(l.LocationID) {
			return NewDataError("zone", l.LocationID, "location_id", ErrUnknownLocation)
		}
		if l.Amount < 0 {
			return NewDataError("zone", l.LocationID, "amount", ErrBadValue)
		}
		if l.SeverityLevel < 0 {
			return NewDataError("zone", l.LocationID, "severity_level", ErrBadValue)
		}
	}
	return nil
}
