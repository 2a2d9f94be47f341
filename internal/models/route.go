package models

// Route is an undirected road between two locations. TravelTimeMinutes is the
// shortest-path weight; DistanceKm and RoadCondition are informational.
// Closed is set only by an operator closing the road, never by the source
// condition text.
type Route struct {
	From              string  `json:"from"`
	To                string  `json:"to"`
	TravelTimeMinutes float64 `json:"travel_time_minutes"`
	DistanceKm        float64 `json:"distance_km"`
	RoadCondition     string  `json:"road_condition,omitempty"`
	Closed            bool    `json:"closed,omitempty"`
}

// Path is a shortest-path result: the ordered location ids and the summed travel time.
type Path struct {
	Nodes  []string `json:"path"`
	Time   float64  `json:"time_minutes"`
	Target string   `json:"target_node"`
}

// Start returns the first node of the path, or "" for an empty path.
func (p Path) Start() string {
	if len(p.Nodes) == 0 {
		return ""
	}
	return p.Nodes[0]
}
