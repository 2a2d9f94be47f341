package allocation

import "disaster_response/internal/models"

// Summarize aggregates capacity and demand figures for display.
func Summarize(g *models.Graph, d models.Distribution, supplies models.SupplyTable) models.Summary {
	var s models.Summary
	for _, l := range g.Locations() {
		switch l.Type {
		case models.Shelter:
			s.AvailableShelterCapacity += l.Capacity - l.Demand
			s.TotalShelterDemand += l.Demand
		case models.Hospital:
			s.TotalHospitalCapacity += l.Capacity
		case models.AffectedArea:
			s.AffectedAreaDemand += l.Demand
		case models.Warehouse:
			s.Warehouses++
		}
	}
	for _, n := range d.Allocated {
		s.HospitalLoad += n
	}
	s.UnmetAreaDemand = d.TotalUnmet()
	if len(supplies) > 0 {
		s.Supplies = supplies.TotalByType()
	}
	return s
}
