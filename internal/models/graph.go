package models

import (
	"math"
	"sort"
)

// Edge is one direction of a route as seen from its source node.
type Edge struct {
	Item          string  `json:"item"`
	Cost          float64 `json:"cost"`
	DistanceKm    float64 `json:"distance_km"`
	RoadCondition string  `json:"road_condition,omitempty"`
	Closed        bool    `json:"closed,omitempty"`
}

// Graph is the undirected routing graph. It is immutable once built and safe
// for concurrent readers.
type Graph struct {
	nodes map[string]Location
	adj   map[string][]Edge // sorted by Item
	ids   []string          // ascending
	edges int
}

// BuildGraph validates the records and assembles the graph. A route between
// an already connected pair keeps the smaller travel time.
func BuildGraph(locations []Location, routes []Route) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]Location, len(locations)),
		adj:   make(map[string][]Edge, len(locations)),
	}
	for _, l := range locations {
		if err := validateLocation(l); err != nil {
			return nil, err
		}
		if _, dup := g.nodes[l.ID]; dup {
			return nil, NewDataError("location", l.ID, "id", ErrDuplicateID)
		}
		g.nodes[l.ID] = l
		g.ids = append(g.ids, l.ID)
	}
	sort.Strings(g.ids)

	pairs := make(map[string]map[string]Edge, len(locations))
	link := func(from string, e Edge) {
		m, ok := pairs[from]
		if !ok {
			m = make(map[string]Edge)
			pairs[from] = m
		}
		if old, ok := m[e.Item]; ok && old.Cost <= e.Cost {
			return
		}
		m[e.Item] = e
	}
	for _, r := range routes {
		if err := g.validateRoute(r); err != nil {
			return nil, err
		}
		link(r.From, Edge{Item: r.To, Cost: r.TravelTimeMinutes, DistanceKm: r.DistanceKm, RoadCondition: r.RoadCondition, Closed: r.Closed})
		link(r.To, Edge{Item: r.From, Cost: r.TravelTimeMinutes, DistanceKm: r.DistanceKm, RoadCondition: r.RoadCondition, Closed: r.Closed})
	}

	for from, m := range pairs {
		edges := make([]Edge, 0, len(m))
		for _, e := range m {
			edges = append(edges, e)
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i].Item < edges[j].Item })
		g.adj[from] = edges
		g.edges += len(edges)
	}
	g.edges /= 2
	return g, nil
}

func validateLocation(l Location) error {
	if l.ID == "" {
		return NewDataError("location", l.ID, "id", ErrMissingField)
	}
	if l.Name == "" {
		return NewDataError("location", l.ID, "name", ErrMissingField)
	}
	if l.Type == "" {
		return NewDataError("location", l.ID, "type", ErrMissingField)
	}
	if _, ok := ParseLocationType(string(l.Type)); !ok {
		return NewDataError("location", l.ID, "type", ErrUnknownType)
	}
	if !finite(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return NewDataError("location", l.ID, "latitude", ErrBadValue)
	}
	if !finite(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return NewDataError("location", l.ID, "longitude", ErrBadValue)
	}
	if l.Capacity < 0 {
		return NewDataError("location", l.ID, "capacity", ErrBadValue)
	}
	if l.Demand < 0 {
		return NewDataError("location", l.ID, "demand", ErrBadValue)
	}
	return nil
}

func (g *Graph) validateRoute(r Route) error {
	key := r.From + "-" + r.To
	if r.From == "" {
		return NewDataError("route", key, "from", ErrMissingField)
	}
	if r.To == "" {
		return NewDataError("route", key, "to", ErrMissingField)
	}
	if !g.Has(r.From) {
		return NewDataError("route", key, "from", ErrUnknownLocation)
	}
	if !g.Has(r.To) {
		return NewDataError("route", key, "to", ErrUnknownLocation)
	}
	if r.From == r.To {
		return NewDataError("route", key, "", ErrSelfLoop)
	}
	if !finite(r.TravelTimeMinutes) || r.TravelTimeMinutes <= 0 {
		return NewDataError("route", key, "travel_time_minutes", ErrBadWeight)
	}
	// Distance is informational; zero means it was not recorded.
	if !finite(r.DistanceKm) || r.DistanceKm < 0 {
		return NewDataError("route", key, "distance_km", ErrBadValue)
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	if g == nil {
		return false
	}
	_, ok := g.nodes[id]
	return ok
}

// Location returns the attributes of a node.
func (g *Graph) Location(id string) (Location, bool) {
	l, ok := g.nodes[id]
	return l, ok
}

// IDs returns all node ids in ascending order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Locations returns the nodes in ascending id order, restricted to the given
// types when any are passed.
func (g *Graph) Locations(types ...LocationType) []Location {
	out := make([]Location, 0, len(g.ids))
	for _, id := range g.ids {
		l := g.nodes[id]
		if len(types) > 0 && !hasType(types, l.Type) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func hasType(types []LocationType, t LocationType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// Neighbors returns the edges leaving id, sorted by neighbour id. The slice
// must not be modified.
func (g *Graph) Neighbors(id string) []Edge {
	return g.adj[id]
}

// Edge returns the route between a and b, in either direction.
func (g *Graph) Edge(a, b string) (Edge, bool) {
	edges := g.adj[a]
	i := sort.Search(len(edges), func(i int) bool { return edges[i].Item >= b })
	if i < len(edges) && edges[i].Item == b {
		return edges[i], true
	}
	return Edge{}, false
}

// Weight returns the travel time of the route between a and b.
func (g *Graph) Weight(a, b string) (float64, bool) {
	e, ok := g.Edge(a, b)
	return e.Cost, ok
}

// Len is the number of nodes.
func (g *Graph) Len() int { return len(g.ids) }

// EdgeCount is the number of distinct undirected routes.
func (g *Graph) EdgeCount() int { return g.edges }

// Routes returns every route once, with From < To, ordered by (From, To).
func (g *Graph) Routes() []Route {
	out := make([]Route, 0, g.edges)
	for _, from := range g.ids {
		for _, e := range g.adj[from] {
			if from < e.Item {
				out = append(out, Route{
					From:              from,
					To:                e.Item,
					TravelTimeMinutes: e.Cost,
					DistanceKm:        e.DistanceKm,
					RoadCondition:     e.RoadCondition,
					Closed:            e.Closed,
				})
			}
		}
	}
	return out
}
