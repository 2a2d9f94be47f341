package models

import "sort"

// SupplyStock is one stock line: how much of a supply type a location holds.
type SupplyStock struct {
	Location        string `json:"location"`
	SupplyType      string `json:"supply_type"`
	StockLevel      int    `json:"stock_level"`
	VehicleCapacity int    `json:"vehicle_capacity"`
}

// SupplyLevel is the stock and vehicle capacity of one supply type at one location.
type SupplyLevel struct {
	Stock           int `json:"stock"`
	VehicleCapacity int `json:"vehicle_capacity"`
}

// SupplyTable is the location -> supply type -> level lookup built once per load.
type SupplyTable map[string]map[string]SupplyLevel

// NewSupplyTable pivots stock lines. The first line for a (location, type)
// pair wins.
func NewSupplyTable(stocks []SupplyStock) SupplyTable {
	t := make(SupplyTable)
	for _, s := range stocks {
		byType, ok := t[s.Location]
		if !ok {
			byType = make(map[string]SupplyLevel)
			t[s.Location] = byType
		}
		if _, dup := byType[s.SupplyType]; dup {
			continue
		}
		byType[s.SupplyType] = SupplyLevel{Stock: s.StockLevel, VehicleCapacity: s.VehicleCapacity}
	}
	return t
}

// Lookup returns the supplies held at a location.
func (t SupplyTable) Lookup(location string) (map[string]SupplyLevel, bool) {
	s, ok := t[location]
	return s, ok
}

// Clone returns a deep copy so callers can draw stock without touching the source.
func (t SupplyTable) Clone() SupplyTable {
	c := make(SupplyTable, len(t))
	for loc, byType := range t {
		cp := make(map[string]SupplyLevel, len(byType))
		for k, v := range byType {
			cp[k] = v
		}
		c[loc] = cp
	}
	return c
}

// Holders lists, in ascending id order, the locations with positive stock of supplyType.
func (t SupplyTable) Holders(supplyType string) []string {
	var out []string
	for loc, byType := range t {
		if byType[supplyType].Stock > 0 {
			out = append(out, loc)
		}
	}
	sort.Strings(out)
	return out
}

// TotalByType sums stock per supply type over the given locations, or over
// every location when none are given.
func (t SupplyTable) TotalByType(locations ...string) map[string]int {
	totals := make(map[string]int)
	add := func(byType map[string]SupplyLevel) {
		for k, v := range byType {
			totals[k] += v.Stock
		}
	}
	if len(locations) == 0 {
		for _, byType := range t {
			add(byType)
		}
		return totals
	}
	for _, loc := range locations {
		add(t[loc])
	}
	return totals
}

// ValidateSupplies checks stock lines against the graph.
func ValidateSupplies(g *Graph, stocks []SupplyStock) error {
	for _, s := range stocks {
		if s.Location == "" {
			return NewDataError("supply", s.Location, "location", ErrMissingField)
		}
		if !g.Has(s.Location) {
			return NewDataError("supply", s.Location, "location", ErrUnknownLocation)
		}
		if s.SupplyType == "" {
			return NewDataError("supply", s.Location, "supply_type", ErrMissingField)
		}
		if s.StockLevel < 0 {
			return NewDataError("supply", s.Location, "stock_level", ErrBadValue)
		}
		if s.VehicleCapacity < 0 {
			return NewDataError("supply", s.Location, "vehicle_capacity", ErrBadValue)
		}
	}
	return nil
}
