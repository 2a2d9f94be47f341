package allocation

import (
	"fmt"
	"sort"

	"disaster_response/internal/models"
)

// ReferenceSpeedKmph is the speed at which raw travel times are taken to be driven.
const ReferenceSpeedKmph = 50.0

type allocatorConfig struct {
	referenceSpeed float64
	severityOrder  bool
}

// AllocatorOption configures the rescue team allocator.
type AllocatorOption func(*allocatorConfig)

// WithReferenceSpeed overrides ReferenceSpeedKmph. Non-positive values are ignored.
func WithReferenceSpeed(kmph float64) AllocatorOption {
	return func(c *allocatorConfig) {
		if kmph > 0 {
			c.referenceSpeed = kmph
		}
	}
}

// WithSeverityOrder processes zones by descending severity instead of first
// appearance. Zones of equal severity keep their input order.
func WithSeverityOrder() AllocatorOption {
	return func(c *allocatorConfig) { c.severityOrder = true }
}

func newAllocatorConfig(opts []AllocatorOption) allocatorConfig {
	c := allocatorConfig{referenceSpeed: ReferenceSpeedKmph}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// EffectiveTime scales a raw travel time by the team's speed relative to the
// reference speed.
func EffectiveTime(rawMinutes, speedKmph, referenceKmph float64) float64 {
	return rawMinutes * (referenceKmph / speedKmph)
}

// AllocateRescueTeams assigns at most one available team to each disaster
// zone, choosing the team with the smallest effective time. A team serves at
// most one zone per run. Zones are taken in order of first appearance in
// lines; zones with no reachable team left are listed as unallocated.
func AllocateRescueTeams(g *models.Graph, r Router, teams []models.RescueTeam, lines []models.ZoneDemand, opts ...AllocatorOption) (models.AllocationReport, error) {
	if err := models.ValidateTeams(g, teams); err != nil {
		return models.AllocationReport{}, err
	}
	if err := models.ValidateZoneDemands(g, lines); err != nil {
		return models.AllocationReport{}, err
	}
	cfg := newAllocatorConfig(opts)

	zones := models.GroupZones(lines)
	if cfg.severityOrder {
		sort.SliceStable(zones, func(i, j int) bool { return zones[i].Severity > zones[j].Severity })
	}

	pool := availableTeams(teams)
	report := models.AllocationReport{Allocations: []models.Allocation{}, Unallocated: []string{}}
	for _, z := range zones {
		if len(pool) == 0 {
			report.Unallocated = append(report.Unallocated, z.LocationID)
			continue
		}
		idx, alloc, ok, err := bestTeam(r, pool, z, cfg)
		if err != nil {
			return models.AllocationReport{}, err
		}
		if !ok {
			report.Unallocated = append(report.Unallocated, z.LocationID)
			continue
		}
		report.Allocations = append(report.Allocations, alloc)
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return report, nil
}

// AllocateForZone picks the best available team for a single zone without
// consuming it. The bool is false when no available team can reach the zone.
func AllocateForZone(g *models.Graph, r Router, teams []models.RescueTeam, lines []models.ZoneDemand, zoneID string, opts ...AllocatorOption) (models.Allocation, bool, error) {
	if !g.Has(zoneID) {
		return models.Allocation{}, false, models.NewDataError("zone", zoneID, "location_id", models.ErrUnknownLocation)
	}
	if err := models.ValidateTeams(g, teams); err != nil {
		return models.Allocation{}, false, err
	}
	if err := models.ValidateZoneDemands(g, lines); err != nil {
		return models.Allocation{}, false, err
	}
	cfg := newAllocatorConfig(opts)

	zone := models.Zone{LocationID: zoneID}
	for _, z := range models.GroupZones(lines) {
		if z.LocationID == zoneID {
			zone = z
			break
		}
	}
	_, alloc, ok, err := bestTeam(r, availableTeams(teams), zone, cfg)
	return alloc, ok, err
}

// availableTeams copies the available teams out of the roster.
func availableTeams(teams []models.RescueTeam) []models.RescueTeam {
	pool := make([]models.RescueTeam, 0, len(teams))
	for _, t := range teams {
		if t.IsAvailable() {
			pool = append(pool, t)
		}
	}
	return pool
}

func bestTeam(r Router, pool []models.RescueTeam, z models.Zone, cfg allocatorConfig) (int, models.Allocation, bool, error) {
	best := -1
	var alloc models.Allocation
	for i, team := range pool {
		tree, err := r.Tree(team.BaseLocation)
		if err != nil {
			return -1, models.Allocation{}, false, fmt.Errorf("routing team %s: %w", team.TeamID, err)
		}
		p, ok := tree.PathTo(z.LocationID)
		if !ok {
			continue
		}
		eff := EffectiveTime(p.Time, team.SpeedKmph, cfg.referenceSpeed)
		if best == -1 || eff < alloc.EstimatedTime {
			best = i
			alloc = models.Allocation{
				TeamID:        team.TeamID,
				ZoneID:        z.LocationID,
				Severity:      z.Severity,
				EstimatedTime: eff,
				Path:          p.Nodes,
				BaseLocation:  team.BaseLocation,
				Speed:         team.SpeedKmph,
			}
		}
	}
	return best, alloc, best != -1, nil
}
