package allocation

import (
	"fmt"
	"sort"

	"disaster_response/internal/models"
)

type hospitalCandidate struct {
	hospital models.Location
	time     float64
}

// DistributeHospitalDemand spreads each affected area's demand over reachable
// hospitals, nearest first, never exceeding a hospital's capacity.
//
// Areas are processed in ascending id order. For each area the reachable
// hospitals are ranked by travel time, ties by id, and consumed in turn.
// Demand that cannot be placed is reported in Distribution.Unmet.
func DistributeHospitalDemand(g *models.Graph, r Router) (models.Distribution, error) {
	hospitals := g.Locations(models.Hospital)
	d := models.Distribution{
		Assignments: make(map[string][]models.AreaAssignment, len(hospitals)),
		Allocated:   make(map[string]int, len(hospitals)),
		Unmet:       make(map[string]int),
	}
	for _, h := range hospitals {
		d.Assignments[h.ID] = []models.AreaAssignment{}
		d.Allocated[h.ID] = 0
	}

	for _, area := range g.Locations(models.AffectedArea) {
		if area.Demand <= 0 {
			continue
		}
		tree, err := r.Tree(area.ID)
		if err != nil {
			return models.Distribution{}, fmt.Errorf("distributing demand of %s: %w", area.ID, err)
		}

		candidates := make([]hospitalCandidate, 0, len(hospitals))
		for _, h := range hospitals {
			p, ok := tree.PathTo(h.ID)
			if !ok {
				continue
			}
			candidates = append(candidates, hospitalCandidate{hospital: h, time: p.Time})
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].time != candidates[j].time {
				return candidates[i].time < candidates[j].time
			}
			return candidates[i].hospital.ID < candidates[j].hospital.ID
		})

		remaining := area.Demand
		for _, c := range candidates {
			if remaining == 0 {
				break
			}
			spare := c.hospital.Capacity - d.Allocated[c.hospital.ID]
			if spare <= 0 {
				continue
			}
			assigned := min(remaining, spare)
			d.Assignments[c.hospital.ID] = append(d.Assignments[c.hospital.ID], models.AreaAssignment{
				AreaID:         area.ID,
				AreaName:       area.Name,
				AssignedAmount: assigned,
				TravelTime:     c.time,
			})
			d.Allocated[c.hospital.ID] += assigned
			remaining -= assigned
		}
		if remaining > 0 {
			d.Unmet[area.ID] = remaining
		}
	}
	return d, nil
}
