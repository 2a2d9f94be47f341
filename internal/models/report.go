package models

// AreaAssignment is the share of one affected area's demand placed at a hospital.
type AreaAssignment struct {
	AreaID         string  `json:"area_id"`
	AreaName       string  `json:"area_name"`
	AssignedAmount int     `json:"assigned_amount"`
	TravelTime     float64 `json:"travel_time"`
}

// Distribution is the output of the hospital demand distributor.
type Distribution struct {
	RunID string `json:"run_id,omitempty"`
	// Assignments maps hospital id to the areas placed there, in placement order.
	Assignments map[string][]AreaAssignment `json:"assignments"`
	// Allocated maps hospital id to the total amount placed there.
	Allocated map[string]int `json:"allocated"`
	// Unmet maps affected area id to the demand left unplaced. Areas fully
	// placed are absent.
	Unmet map[string]int `json:"unmet,omitempty"`
}

// Remaining is the bed capacity of a hospital not yet consumed by this distribution.
func (d Distribution) Remaining(h Location) int {
	return h.Capacity - d.Allocated[h.ID]
}

// TotalUnmet sums the unplaced demand over all areas.
func (d Distribution) TotalUnmet() int {
	total := 0
	for _, v := range d.Unmet {
		total += v
	}
	return total
}

// Allocation assigns one rescue team to one disaster zone.
type Allocation struct {
	TeamID        string   `json:"team_id"`
	ZoneID        string   `json:"zone_id"`
	Severity      int      `json:"severity"`
	EstimatedTime float64  `json:"estimated_time"`
	Path          []string `json:"path"`
	BaseLocation  string   `json:"base_location"`
	Speed         float64  `json:"speed"`
}

// AllocationReport is the output of one allocator run. Unallocated lists the
// zones for which no available team could be found.
type AllocationReport struct {
	RunID       string       `json:"run_id,omitempty"`
	Allocations []Allocation `json:"allocations"`
	Unallocated []string     `json:"unallocated"`
}

// ByZone returns the allocation for a zone, if any.
func (r AllocationReport) ByZone(zoneID string) (Allocation, bool) {
	for _, a := range r.Allocations {
		if a.ZoneID == zoneID {
			return a, true
		}
	}
	return Allocation{}, false
}

// Shipment is an amount of one resource drawn from one facility.
type Shipment struct {
	From       string   `json:"from"`
	Amount     int      `json:"amount"`
	TravelTime float64  `json:"travel_time"`
	Path       []string `json:"path"`
}

// ResourceDispatch is the outcome for one resource type of a zone.
type ResourceDispatch struct {
	ResourceType string     `json:"resource_type"`
	Required     int        `json:"required"`
	Shipments    []Shipment `json:"shipments"`
	Shortfall    int        `json:"shortfall"`
}

// DispatchReport lists the supply shipments planned for one zone.
type DispatchReport struct {
	ZoneID    string             `json:"zone_id"`
	Resources []ResourceDispatch `json:"resources"`
}

// Summary aggregates capacity figures over the network.
type Summary struct {
	AvailableShelterCapacity int            `json:"available_shelter_capacity"`
	TotalShelterDemand       int            `json:"total_shelter_demand"`
	TotalHospitalCapacity    int            `json:"total_hospital_capacity"`
	HospitalLoad             int            `json:"hospital_load"`
	AffectedAreaDemand       int            `json:"affected_area_demand"`
	UnmetAreaDemand          int            `json:"unmet_area_demand"`
	Warehouses               int            `json:"warehouses"`
	Supplies                 map[string]int `json:"supplies,omitempty"`
}
