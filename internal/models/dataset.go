package models

// Dataset is the full set of source records for one load.
type Dataset struct {
	Locations []Location    `json:"locations"`
	Routes    []Route       `json:"routes"`
	Teams     []RescueTeam  `json:"teams"`
	Zones     []ZoneDemand  `json:"zones"`
	Supplies  []SupplyStock `json:"supplies"`
}

// Network is a validated, read-only view of a Dataset. Callers must not
// modify its slices.
type Network struct {
	Graph    *Graph
	Teams    []RescueTeam
	Zones    []ZoneDemand
	Supplies SupplyTable
}

// Build validates every record collection and assembles the graph.
func (d Dataset) Build() (*Network, error) {
	g, err := BuildGraph(d.Locations, d.Routes)
	if err != nil {
		return nil, err
	}
	if err := ValidateTeams(g, d.Teams); err != nil {
		return nil, err
	}
	if err := ValidateZoneDemands(g, d.Zones); err != nil {
		return nil, err
	}
	if err := ValidateSupplies(g, d.Supplies); err != nil {
		return nil, err
	}
	return &Network{
		Graph:    g,
		Teams:    append([]RescueTeam(nil), d.Teams...),
		Zones:    append([]ZoneDemand(nil), d.Zones...),
		Supplies: NewSupplyTable(d.Supplies),
	}, nil
}
