// Package services holds the DisasterService, which keeps the current network
// snapshot and answers routing and allocation queries against it.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"disaster_response/internal/allocation"
	"disaster_response/internal/dijkstra"
	"disaster_response/internal/events"
	"disaster_response/internal/metrics"
	"disaster_response/internal/models"
	"disaster_response/internal/narrate"
)

var (
	// ErrNotLoaded is returned before the first successful Reload.
	ErrNotLoaded = errors.New("network not loaded")
	// ErrReadOnly is returned by mutations when the source cannot be written.
	ErrReadOnly = errors.New("data source is read-only")
)

// Source yields the records of the network.
type Source interface {
	Load(ctx context.Context) (models.Dataset, error)
}

// Mutator writes changes to the stored network.
type Mutator interface {
	SetClosed(ctx context.Context, from, to string, closed bool) error
	UpdateTravelTime(ctx context.Context, from, to string, minutes float64) error
	AddLocation(ctx context.Context, loc models.Location, routes []models.Route) error
}

type Options struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Publisher      events.Publisher
	Mutator        Mutator
	CacheTTL       time.Duration
	ReferenceSpeed float64
	// AvoidAffected forbids routing through affected areas.
	AvoidAffected bool
	// SkipConditions makes routes with these road conditions impassable.
	SkipConditions []string
}

type DisasterService struct {
	source    Source
	mutator   Mutator
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
	trees     *cache.Cache
	allocOpts []allocation.AllocatorOption
	search    []dijkstra.Option

	mu      sync.RWMutex
	network *models.Network
	version uint64
}

func NewDisasterService(source Source, opts Options) *DisasterService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Nop{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	// Only operator closures block a road; road_condition is informational.
	search := []dijkstra.Option{dijkstra.SkipClosed()}
	if opts.AvoidAffected {
		search = append(search, dijkstra.AvoidTypes(models.AffectedArea))
	}
	if len(opts.SkipConditions) > 0 {
		search = append(search, dijkstra.SkipRoadConditions(opts.SkipConditions...))
	}
	var allocOpts []allocation.AllocatorOption
	if opts.ReferenceSpeed > 0 {
		allocOpts = append(allocOpts, allocation.WithReferenceSpeed(opts.ReferenceSpeed))
	}
	return &DisasterService{
		source:    source,
		mutator:   opts.Mutator,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		log:       opts.Logger.With("component", "disaster_service"),
		trees:     cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		allocOpts: allocOpts,
		search:    search,
	}
}

// Reload reads the source again and swaps the snapshot. On failure the
// previous snapshot stays in place.
func (s *DisasterService) Reload(ctx context.Context) error {
	ds, err := s.source.Load(ctx)
	if err != nil {
		s.metrics.Reload(false)
		return fmt.Errorf("loading network: %w", err)
	}
	n, err := ds.Build()
	if err != nil {
		s.metrics.Reload(false)
		return fmt.Errorf("building network: %w", err)
	}

	s.mu.Lock()
	s.network = n
	s.version++
	s.mu.Unlock()
	s.trees.Flush()

	s.metrics.Reload(true)
	s.log.Info("network_loaded",
		"locations", n.Graph.Len(),
		"routes", n.Graph.EdgeCount(),
		"teams", len(n.Teams),
		"zone_lines", len(n.Zones))
	return nil
}

// snapshot returns the current network and a router over it. The router
// stops handing out trees once ctx is done.
func (s *DisasterService) snapshot(ctx context.Context) (*models.Network, allocation.Router, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.network == nil {
		return nil, nil, ErrNotLoaded
	}
	return s.network, &cachedRouter{ctx: ctx, svc: s, g: s.network.Graph, version: s.version}, nil
}

// cachedRouter serves trees from the service cache, keyed by snapshot version.
type cachedRouter struct {
	ctx     context.Context
	svc     *DisasterService
	g       *models.Graph
	version uint64
}

func (r *cachedRouter) Tree(start string) (*dijkstra.Tree, error) {
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	key := strconv.FormatUint(r.version, 10) + "|" + start + "|" + dijkstra.Key(r.svc.search...)
	if v, ok := r.svc.trees.Get(key); ok {
		r.svc.metrics.CacheHit()
		return v.(*dijkstra.Tree), nil
	}
	r.svc.metrics.CacheMiss()
	t, err := dijkstra.Search(r.g, start, r.svc.search...)
	if err != nil {
		return nil, err
	}
	r.svc.trees.Set(key, t, cache.DefaultExpiration)
	return t, nil
}

// Locations lists the network's locations, optionally of one type.
func (s *DisasterService) Locations(ctx context.Context, types ...models.LocationType) ([]models.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return n.Graph.Locations(types...), nil
}

// RouteResult is a shortest path with its narration.
type RouteResult struct {
	Found bool        `json:"found"`
	Path  models.Path `json:"route"`
	Steps []string    `json:"steps,omitempty"`
}

func (s *DisasterService) Route(ctx context.Context, from, to string) (RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return RouteResult{}, err
	}
	n, r, err := s.snapshot(ctx)
	if err != nil {
		return RouteResult{}, err
	}
	if !n.Graph.Has(to) {
		return RouteResult{}, models.NewDataError("location", to, "id", models.ErrUnknownLocation)
	}
	t, err := r.Tree(from)
	if err != nil {
		return RouteResult{}, err
	}
	p, ok := t.PathTo(to)
	if !ok {
		return RouteResult{Found: false}, nil
	}
	steps, err := narrate.Describe(p.Nodes, n.Graph)
	if err != nil {
		return RouteResult{}, err
	}
	return RouteResult{Found: true, Path: p, Steps: steps}, nil
}

// Nearest finds the closest facility of type ft from start.
func (s *DisasterService) Nearest(ctx context.Context, from string, ft models.LocationType) (RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return RouteResult{}, err
	}
	n, r, err := s.snapshot(ctx)
	if err != nil {
		return RouteResult{}, err
	}
	t, err := r.Tree(from)
	if err != nil {
		return RouteResult{}, err
	}
	p, ok := t.Nearest(n.Graph, ft)
	if !ok {
		return RouteResult{Found: false}, nil
	}
	steps, err := narrate.Describe(p.Nodes, n.Graph)
	if err != nil {
		return RouteResult{}, err
	}
	return RouteResult{Found: true, Path: p, Steps: steps}, nil
}

type Reachability struct {
	Accessible   []string `json:"accessible"`
	Inaccessible []string `json:"inaccessible"`
}

func (s *DisasterService) Reachable(ctx context.Context, from string) (Reachability, error) {
	if err := ctx.Err(); err != nil {
		return Reachability{}, err
	}
	n, _, err := s.snapshot(ctx)
	if err != nil {
		return Reachability{}, err
	}
	acc, inacc, err := dijkstra.Reachable(n.Graph, from, s.search...)
	if err != nil {
		return Reachability{}, err
	}
	return Reachability{Accessible: acc, Inaccessible: inacc}, nil
}

// Within lists locations reachable from start in under minutes.
func (s *DisasterService) Within(ctx context.Context, from string, minutes float64, ft models.LocationType) ([]models.Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, r, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	t, err := r.Tree(from)
	if err != nil {
		return nil, err
	}
	out := t.Within(n.Graph, minutes, ft)
	if out == nil {
		out = []models.Path{}
	}
	return out, nil
}

// Distribute runs the hospital demand distributor and publishes its report.
func (s *DisasterService) Distribute(ctx context.Context) (models.Distribution, error) {
	if err := ctx.Err(); err != nil {
		return models.Distribution{}, err
	}
	n, r, err := s.snapshot(ctx)
	if err != nil {
		return models.Distribution{}, err
	}
	d, err := allocation.DistributeHospitalDemand(n.Graph, r)
	if err != nil {
		return models.Distribution{}, err
	}
	d.RunID = uuid.NewString()
	s.metrics.Distribution(d.TotalUnmet())
	s.log.Info("distribution_completed", "run_id", d.RunID, "unmet", d.TotalUnmet())
	s.publish(ctx, "distribution", d.RunID, d)
	return d, nil
}

// AllocateTeams runs the batch rescue team allocator and publishes its report.
func (s *DisasterService) AllocateTeams(ctx context.Context, bySeverity bool) (models.AllocationReport, error) {
	if err := ctx.Err(); err != nil {
		return models.AllocationReport{}, err
	}
	n, r, err := s.snapshot(ctx)
	if err != nil {
		return models.AllocationReport{}, err
	}
	opts := s.allocOpts
	if bySeverity {
		opts = append(append([]allocation.AllocatorOption(nil), opts...), allocation.WithSeverityOrder())
	}
	rep, err := allocation.AllocateRescueTeams(n.Graph, r, n.Teams, n.Zones, opts...)
	if err != nil {
		return models.AllocationReport{}, err
	}
	rep.RunID = uuid.NewString()
	s.metrics.Allocation(len(rep.Unallocated))
	s.log.Info("allocation_completed",
		"run_id", rep.RunID,
		"allocated", len(rep.Allocations),
		"unallocated", len(rep.Unallocated))
	s.publish(ctx, "allocation", rep.RunID, rep)
	return rep, nil
}

// AllocateForZone picks the best team for one zone without consuming it.
func (s *DisasterService) AllocateForZone(ctx context.Context, zoneID string) (models.Allocation, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Allocation{}, false, err
	}
	n, r, err := s.snapshot(ctx)
	if err != nil {
		return models.Allocation{}, false, err
	}
	return allocation.AllocateForZone(n.Graph, r, n.Teams, n.Zones, zoneID, s.allocOpts...)
}

// Dispatch plans supply shipments to one zone. The bool is false when the
// zone has no demand lines.
func (s *DisasterService) Dispatch(ctx context.Context, zoneID string) (models.DispatchReport, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.DispatchReport{}, false, err
	}
	n, r, err := s.snapshot(ctx)
	if err != nil {
		return models.DispatchReport{}, false, err
	}
	rep, ok, err := allocation.DispatchSupplies(n.Graph, r, n.Supplies, n.Zones, zoneID)
	if err != nil {
		return models.DispatchReport{}, false, err
	}
	if ok {
		s.metrics.Dispatch()
	}
	return rep, ok, nil
}

// Summary reports capacities and loads after a fresh distribution run.
func (s *DisasterService) Summary(ctx context.Context) (models.Summary, error) {
	if err := ctx.Err(); err != nil {
		return models.Summary{}, err
	}
	n, r, err := s.snapshot(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	d, err := allocation.DistributeHospitalDemand(n.Graph, r)
	if err != nil {
		return models.Summary{}, err
	}
	return allocation.Summarize(n.Graph, d, n.Supplies), nil
}

func (s *DisasterService) CloseRoute(ctx context.Context, from, to string) error {
	return s.mutate(ctx, "close_route", func(m Mutator) error {
		return m.SetClosed(ctx, from, to, true)
	})
}

func (s *DisasterService) OpenRoute(ctx context.Context, from, to string) error {
	return s.mutate(ctx, "open_route", func(m Mutator) error {
		return m.SetClosed(ctx, from, to, false)
	})
}

func (s *DisasterService) UpdateTravelTime(ctx context.Context, from, to string, minutes float64) error {
	if minutes <= 0 {
		return models.NewDataError("route", from+"-"+to, "travel_time_minutes", models.ErrBadWeight)
	}
	return s.mutate(ctx, "update_travel_time", func(m Mutator) error {
		return m.UpdateTravelTime(ctx, from, to, minutes)
	})
}

// AddLocation stores a new location with its routes. The record is checked
// against the current snapshot before it is written.
func (s *DisasterService) AddLocation(ctx context.Context, loc models.Location, routes []models.Route) error {
	n, _, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	ds := models.Dataset{
		Locations: append(n.Graph.Locations(), loc),
		Routes:    append(n.Graph.Routes(), routes...),
	}
	if _, err := models.BuildGraph(ds.Locations, ds.Routes); err != nil {
		return err
	}
	return s.mutate(ctx, "add_location", func(m Mutator) error {
		return m.AddLocation(ctx, loc, routes)
	})
}

func (s *DisasterService) mutate(ctx context.Context, op string, apply func(Mutator) error) error {
	if s.mutator == nil {
		return ErrReadOnly
	}
	if err := apply(s.mutator); err != nil {
		return err
	}
	s.log.Info("network_mutated", "op", op)
	return s.Reload(ctx)
}

func (s *DisasterService) publish(ctx context.Context, kind, runID string, payload any) {
	ev := events.Event{Kind: kind, RunID: runID, CreatedAt: time.Now().UTC(), Payload: payload}
	if err := s.publisher.Publish(ctx, runID, ev); err != nil {
		s.log.Warn("report_not_published", "kind", kind, "run_id", runID, "err", err)
	}
}
