package models

import "strings"

// LocationType classifies a graph node.
type LocationType string

const (
	AffectedArea LocationType = "affected_area"
	Shelter      LocationType = "shelter"
	Hospital     LocationType = "hospital"
	Warehouse    LocationType = "warehouse"
	RescueBase   LocationType = "rescue_base"
)

// LocationTypes lists every known type in a fixed order.
var LocationTypes = []LocationType{AffectedArea, Shelter, Hospital, Warehouse, RescueBase}

// ParseLocationType accepts the type names case-insensitively.
func ParseLocationType(s string) (LocationType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range LocationTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Location is a node of the routing graph. Capacity means beds for hospitals
// and spots for shelters; Demand is the current unmet need.
type Location struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      LocationType `json:"type"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Capacity  int          `json:"capacity"`
	Demand    int          `json:"demand"`
}

// Available is capacity minus current demand, floored at zero.
func (l Location) Available() int {
	if l.Demand >= l.Capacity {
		return 0
	}
	return l.Capacity - l.Demand
}
