package dijkstra

import (
	"container/heap"
	"math"

	"disaster_response/internal/models"
)

// Item is a node in the priority queue.
type Item struct {
	Value    string
	Priority float64
	Index    int
}

// PriorityQueue implements heap.Interface. Equal priorities pop in ascending
// id order so equal-cost paths are chosen reproducibly.
type PriorityQueue []*Item

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].Value < pq[j].Value
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x any) {
	item := x.(*Item)
	item.Index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}

// Dijkstra computes travel times from start to every node. Unreached nodes
// keep +Inf; previous holds the predecessor of every reached node but start.
func Dijkstra(g *models.Graph, start string, opts ...Option) (map[string]float64, map[string]string, error) {
	if !g.Has(start) {
		return nil, nil, models.NewDataError("location", start, "id", models.ErrUnknownLocation)
	}
	o := buildOptions(opts)

	distances := make(map[string]float64, g.Len())
	previous := make(map[string]string)
	visited := make(map[string]bool, g.Len())
	for _, id := range g.IDs() {
		distances[id] = math.Inf(1)
	}
	distances[start] = 0

	pq := make(PriorityQueue, 0, g.Len())
	heap.Init(&pq)
	heap.Push(&pq, &Item{Value: start, Priority: 0})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*Item)
		u := item.Value
		if visited[u] {
			continue
		}
		visited[u] = true

		if u != start {
			if loc, _ := g.Location(u); !o.transit(loc) {
				continue
			}
		}

		for _, e := range g.Neighbors(u) {
			if !o.passable(e) || visited[e.Item] {
				continue
			}
			if e.Cost <= 0 || math.IsNaN(e.Cost) {
				return nil, nil, models.NewDataError("route", u+"-"+e.Item, "travel_time_minutes", models.ErrBadWeight)
			}
			alt := distances[u] + e.Cost
			if alt < distances[e.Item] {
				distances[e.Item] = alt
				previous[e.Item] = u
				heap.Push(&pq, &Item{Value: e.Item, Priority: alt})
			}
		}
	}
	return distances, previous, nil
}

// Travel walks the predecessor map back from end. It reports false when end
// was not reached from start.
func Travel(distances map[string]float64, previous map[string]string, start, end string) ([]string, float64, bool) {
	cost, ok := distances[end]
	if !ok || math.IsInf(cost, 1) {
		return nil, 0, false
	}
	path := []string{end}
	for current := end; current != start; {
		pred, ok := previous[current]
		if !ok || len(path) > len(distances) {
			return nil, 0, false
		}
		path = append(path, pred)
		current = pred
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, cost, true
}

// Tree is a completed single-source search. It is read-only and may be
// shared between goroutines.
type Tree struct {
	Start     string
	distances map[string]float64
	previous  map[string]string
}

// Search runs Dijkstra from start and keeps the result for repeated path queries.
func Search(g *models.Graph, start string, opts ...Option) (*Tree, error) {
	dist, prev, err := Dijkstra(g, start, opts...)
	if err != nil {
		return nil, err
	}
	return &Tree{Start: start, distances: dist, previous: prev}, nil
}

// PathTo returns the shortest path from the tree's start to target.
func (t *Tree) PathTo(target string) (models.Path, bool) {
	nodes, cost, ok := Travel(t.distances, t.previous, t.Start, target)
	if !ok {
		return models.Path{}, false
	}
	return models.Path{Nodes: nodes, Time: cost, Target: target}, true
}

// Distance returns the travel time to target, or +Inf when unreachable.
func (t *Tree) Distance(target string) float64 {
	d, ok := t.distances[target]
	if !ok {
		return math.Inf(1)
	}
	return d
}

// ShortestPath returns the minimum travel-time path from start to goal. The
// bool is false when goal cannot be reached; that is not an error.
func ShortestPath(g *models.Graph, start, goal string, opts ...Option) (models.Path, bool, error) {
	if !g.Has(goal) {
		return models.Path{}, false, models.NewDataError("location", goal, "id", models.ErrUnknownLocation)
	}
	t, err := Search(g, start, opts...)
	if err != nil {
		return models.Path{}, false, err
	}
	p, ok := t.PathTo(goal)
	return p, ok, nil
}
