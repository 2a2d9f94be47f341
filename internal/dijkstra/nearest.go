package dijkstra

import (
	"sort"

	"disaster_response/internal/models"
)

// Nearest returns the facility of type ft with the smallest travel time from
// the tree's start. Facilities are scanned in ascending id order and the first
// minimum wins. The bool is false when no such facility is reachable.
func (t *Tree) Nearest(g *models.Graph, ft models.LocationType) (models.Path, bool) {
	var best models.Path
	found := false
	for _, f := range g.Locations(ft) {
		p, ok := t.PathTo(f.ID)
		if !ok {
			continue
		}
		if !found || p.Time < best.Time {
			best = p
			found = true
		}
	}
	return best, found
}

// FindNearest returns the nearest facility of type ft from start.
func FindNearest(g *models.Graph, start string, ft models.LocationType, opts ...Option) (models.Path, bool, error) {
	t, err := Search(g, start, opts...)
	if err != nil {
		return models.Path{}, false, err
	}
	p, ok := t.Nearest(g, ft)
	return p, ok, nil
}

// Within lists the locations reachable from the tree's start in strictly less
// than minutes, optionally restricted to one type, ordered by travel time then
// id. The start itself is excluded.
func (t *Tree) Within(g *models.Graph, minutes float64, ft models.LocationType) []models.Path {
	var out []models.Path
	for _, l := range g.Locations() {
		if l.ID == t.Start || (ft != "" && l.Type != ft) {
			continue
		}
		p, ok := t.PathTo(l.ID)
		if !ok || p.Time >= minutes {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// WithinTime runs a search from start and returns the locations reachable
// under the time budget.
func WithinTime(g *models.Graph, start string, minutes float64, ft models.LocationType, opts ...Option) ([]models.Path, error) {
	t, err := Search(g, start, opts...)
	if err != nil {
		return nil, err
	}
	return t.Within(g, minutes, ft), nil
}

// Reachable splits the graph's nodes into those connected to start and those
// cut off from it, both in ascending id order.
func Reachable(g *models.Graph, start string, opts ...Option) ([]string, []string, error) {
	if !g.Has(start) {
		return nil, nil, models.NewDataError("location", start, "id", models.ErrUnknownLocation)
	}
	o := buildOptions(opts)

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current != start {
			if loc, _ := g.Location(current); !o.transit(loc) {
				continue
			}
		}
		for _, e := range g.Neighbors(current) {
			if o.passable(e) && !visited[e.Item] {
				visited[e.Item] = true
				queue = append(queue, e.Item)
			}
		}
	}

	accessible := []string{}
	inaccessible := []string{}
	for _, id := range g.IDs() {
		if visited[id] {
			accessible = append(accessible, id)
		} else {
			inaccessible = append(inaccessible, id)
		}
	}
	return accessible, inaccessible, nil
}
