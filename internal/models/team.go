package models

import (
	"math"
	"strings"
)

// Availability of a rescue team.
type Availability string

const (
	Available   Availability = "Available"
	Unavailable Availability = "Unavailable"
)

// ParseAvailability maps any casing of "available" to Available; every other
// value is Unavailable.
func ParseAvailability(s string) Availability {
	if strings.EqualFold(strings.TrimSpace(s), string(Available)) {
		return Available
	}
	return Unavailable
}

type RescueTeam struct {
	TeamID       string       `json:"team_id"`
	BaseLocation string       `json:"base_location"`
	SpeedKmph    float64      `json:"speed_kmph"`
	Availability Availability `json:"availability"`
}

func (t RescueTeam) IsAvailable() bool { return t.Availability == Available }

// ValidateTeams checks ids, base locations and speeds against the graph.
func ValidateTeams(g *Graph, teams []RescueTeam) error {
	seen := make(map[string]bool, len(teams))
	for _, t := range teams {
		if t.TeamID == "" {
			return NewDataError("team", t.TeamID, "team_id", ErrMissingField)
		}
		if seen[t.TeamID] {
			return NewDataError("team", t.TeamID, "team_id", ErrDuplicateID)
		}
		seen[t.TeamID] = true
		if t.BaseLocation == "" {
			return NewDataError("team", t.TeamID, "base_location", ErrMissingField)
		}
		if !g.Has(t.BaseLocation) {
			return NewDataError("team", t.TeamID, "base_location", ErrUnknownLocation)
		}
		if math.IsNaN(t.SpeedKmph) || math.IsInf(t.SpeedKmph, 0) || t.SpeedKmph <= 0 {
			return NewDataError("team", t.TeamID, "speed_kmph", ErrBadValue)
		}
	}
	return nil
}
