// Package allocation holds the greedy assignment algorithms: hospital demand
// distribution, rescue team allocation and relief supply dispatch.
//
// Every function works on a snapshot of its inputs. Source records are never
// mutated; consumed pools and stock live in per-call working copies.
package allocation

import (
	"sync"

	"disaster_response/internal/dijkstra"
	"disaster_response/internal/models"
)

// Router yields shortest-path trees rooted at a location.
type Router interface {
	Tree(start string) (*dijkstra.Tree, error)
}

type graphRouter struct {
	g    *models.Graph
	opts []dijkstra.Option

	mu    sync.Mutex
	trees map[string]*dijkstra.Tree
}

// NewRouter returns a Router that searches g and remembers each tree for the
// router's lifetime.
func NewRouter(g *models.Graph, opts ...dijkstra.Option) Router {
	return &graphRouter{g: g, opts: opts, trees: make(map[string]*dijkstra.Tree)}
}

func (r *graphRouter) Tree(start string) (*dijkstra.Tree, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.trees[start]; ok {
		return t, nil
	}
	t, err := dijkstra.Search(r.g, start, r.opts...)
	if err != nil {
		return nil, err
	}
	r.trees[start] = t
	return t, nil
}
