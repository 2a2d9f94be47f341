package allocation

import (
	"fmt"
	"sort"

	"disaster_response/internal/models"
)

// ResourcePriority is the order in which a zone's needs are served. Resource
// types not listed follow in ascending name order.
var ResourcePriority = []string{"Medicine", "Food", "Water"}

type stockCandidate struct {
	location string
	time     float64
	path     []string
}

// DispatchSupplies plans shipments of relief supplies to one disaster zone.
// For each required resource the facilities holding stock are ranked by
// travel time to the zone, ties by id, and drawn from until the need is met.
// Stock is drawn from a private copy of supplies. The bool is false when the
// zone has no demand lines.
func DispatchSupplies(g *models.Graph, r Router, supplies models.SupplyTable, lines []models.ZoneDemand, zoneID string) (models.DispatchReport, bool, error) {
	if !g.Has(zoneID) {
		return models.DispatchReport{}, false, models.NewDataError("zone", zoneID, "location_id", models.ErrUnknownLocation)
	}
	if err := models.ValidateZoneDemands(g, lines); err != nil {
		return models.DispatchReport{}, false, err
	}

	var zone *models.Zone
	for _, z := range models.GroupZones(lines) {
		if z.LocationID == zoneID {
			zone = &z
			break
		}
	}
	report := models.DispatchReport{ZoneID: zoneID, Resources: []models.ResourceDispatch{}}
	if zone == nil {
		return report, false, nil
	}

	tree, err := r.Tree(zoneID)
	if err != nil {
		return models.DispatchReport{}, false, fmt.Errorf("dispatching to %s: %w", zoneID, err)
	}
	stock := supplies.Clone()

	for _, resource := range resourceOrder(zone.Required) {
		needed := zone.Required[resource]
		if needed <= 0 {
			continue
		}

		var candidates []stockCandidate
		for _, loc := range stock.Holders(resource) {
			p, ok := tree.PathTo(loc)
			if !ok {
				continue
			}
			candidates = append(candidates, stockCandidate{location: loc, time: p.Time, path: reversed(p.Nodes)})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].time != candidates[j].time {
				return candidates[i].time < candidates[j].time
			}
			return candidates[i].location < candidates[j].location
		})

		rd := models.ResourceDispatch{ResourceType: resource, Required: needed, Shipments: []models.Shipment{}}
		remaining := needed
		for _, c := range candidates {
			if remaining == 0 {
				break
			}
			level := stock[c.location][resource]
			supplied := min(remaining, level.Stock)
			if supplied <= 0 {
				continue
			}
			level.Stock -= supplied
			stock[c.location][resource] = level
			remaining -= supplied
			rd.Shipments = append(rd.Shipments, models.Shipment{
				From:       c.location,
				Amount:     supplied,
				TravelTime: c.time,
				Path:       c.path,
			})
		}
		rd.Shortfall = remaining
		report.Resources = append(report.Resources, rd)
	}
	return report, true, nil
}

func resourceOrder(required map[string]int) []string {
	order := make([]string, 0, len(required))
	listed := make(map[string]bool, len(ResourcePriority))
	for _, r := range ResourcePriority {
		listed[r] = true
		if _, ok := required[r]; ok {
			order = append(order, r)
		}
	}
	var rest []string
	for r := range required {
		if !listed[r] {
			rest = append(rest, r)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func reversed(nodes []string) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}
