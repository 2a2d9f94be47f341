package dijkstra

import (
	"sort"
	"strings"

	"disaster_response/internal/models"
)

// Options tune which nodes and routes a search may use. The zero value
// searches the whole graph.
type Options struct {
	avoid      map[models.LocationType]bool
	conditions map[string]bool
	skipClosed bool
}

// Option configures a search.
type Option func(*Options)

// AvoidTypes forbids passing through locations of the given types. Such
// locations can still start or end a path.
func AvoidTypes(types ...models.LocationType) Option {
	return func(o *Options) {
		if o.avoid == nil {
			o.avoid = make(map[models.LocationType]bool)
		}
		for _, t := range types {
			o.avoid[t] = true
		}
	}
}

// SkipRoadConditions makes routes whose road condition matches one of conds
// (case-insensitive) impassable.
func SkipRoadConditions(conds ...string) Option {
	return func(o *Options) {
		if o.conditions == nil {
			o.conditions = make(map[string]bool)
		}
		for _, c := range conds {
			o.conditions[strings.ToLower(strings.TrimSpace(c))] = true
		}
	}
}

// SkipClosed makes routes closed by an operator impassable.
func SkipClosed() Option {
	return func(o *Options) { o.skipClosed = true }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) passable(e models.Edge) bool {
	if o.skipClosed && e.Closed {
		return false
	}
	return !o.conditions[strings.ToLower(strings.TrimSpace(e.RoadCondition))]
}

func (o Options) transit(l models.Location) bool {
	return !o.avoid[l.Type]
}

// Key is a stable textual form of the options, usable as a cache key part.
func Key(opts ...Option) string {
	o := buildOptions(opts)
	var parts []string
	for t := range o.avoid {
		parts = append(parts, "avoid="+string(t))
	}
	for c := range o.conditions {
		parts = append(parts, "skip="+c)
	}
	if o.skipClosed {
		parts = append(parts, "closed")
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
