package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Locations: []Location{
			loc("A1", AffectedArea), loc("R1", RescueBase), loc("W1", Warehouse),
		},
		Routes: []Route{
			{From: "A1", To: "R1", TravelTimeMinutes: 5},
			{From: "A1", To: "W1", TravelTimeMinutes: 8},
		},
		Teams: []RescueTeam{{TeamID: "T1", BaseLocation: "R1", SpeedKmph: 50, Availability: Available}},
		Zones: []ZoneDemand{{LocationID: "A1", ResourceType: "Food", Amount: 10, SeverityLevel: 3}},
		Supplies: []SupplyStock{
			{Location: "W1", SupplyType: "Food", StockLevel: 100, VehicleCapacity: 20},
		},
	}
}

func TestDatasetBuild(t *testing.T) {
	n, err := sampleDataset().Build()
	require.NoError(t, err)
	assert.Equal(t, 3, n.Graph.Len())
	assert.Len(t, n.Teams, 1)
	lvl, ok := n.Supplies.Lookup("W1")
	require.True(t, ok)
	assert.Equal(t, 100, lvl["Food"].Stock)
}

func TestDatasetBuildValidatesEveryCollection(t *testing.T) {
	ds := sampleDataset()
	ds.Teams[0].BaseLocation = "ghost"
	_, err := ds.Build()
	assert.ErrorIs(t, err, ErrUnknownLocation)

	ds = sampleDataset()
	ds.Teams = append(ds.Teams, ds.Teams[0])
	_, err = ds.Build()
	assert.ErrorIs(t, err, ErrDuplicateID)

	ds = sampleDataset()
	ds.Teams[0].SpeedKmph = 0
	_, err = ds.Build()
	assert.ErrorIs(t, err, ErrBadValue)

	ds = sampleDataset()
	ds.Zones[0].Amount = -1
	_, err = ds.Build()
	assert.ErrorIs(t, err, ErrBadValue)

	ds = sampleDataset()
	ds.Supplies[0].Location = "ghost"
	_, err = ds.Build()
	assert.ErrorIs(t, err, ErrUnknownLocation)
}

func TestGroupZones(t *testing.T) {
	zones := GroupZones([]ZoneDemand{
		{LocationID: "Z2", ResourceType: "Food", Amount: 5, SeverityLevel: 2},
		{LocationID: "Z1", ResourceType: "Water", Amount: 7, SeverityLevel: 1},
		{LocationID: "Z2", ResourceType: "Water", Amount: 3, SeverityLevel: 4},
		{LocationID: "Z2", ResourceType: "Food", Amount: 9, SeverityLevel: 1},
	})
	require.Len(t, zones, 2)
	assert.Equal(t, "Z2", zones[0].LocationID)
	assert.Equal(t, 4, zones[0].Severity)
	assert.Equal(t, map[string]int{"Food": 9, "Water": 3}, zones[0].Required)
	assert.Equal(t, "Z1", zones[1].LocationID)
}

func TestSupplyTable(t *testing.T) {
	table := NewSupplyTable([]SupplyStock{
		{Location: "W2", SupplyType: "Food", StockLevel: 5},
		{Location: "W1", SupplyType: "Food", StockLevel: 10},
		{Location: "W1", SupplyType: "Food", StockLevel: 99},
		{Location: "W3", SupplyType: "Food", StockLevel: 0},
		{Location: "W1", SupplyType: "Water", StockLevel: 4},
	})

	assert.Equal(t, []string{"W1", "W2"}, table.Holders("Food"))
	assert.Equal(t, map[string]int{"Food": 15, "Water": 4}, table.TotalByType())
	assert.Equal(t, map[string]int{"Food": 10, "Water": 4}, table.TotalByType("W1"))

	c := table.Clone()
	lvl := c["W1"]["Food"]
	lvl.Stock = 0
	c["W1"]["Food"] = lvl
	assert.Equal(t, 10, table["W1"]["Food"].Stock)
}

func TestLocationHelpers(t *testing.T) {
	typ, ok := ParseLocationType(" Hospital ")
	assert.True(t, ok)
	assert.Equal(t, Hospital, typ)
	_, ok = ParseLocationType("castle")
	assert.False(t, ok)

	assert.Equal(t, 130, Location{Capacity: 150, Demand: 20}.Available())
	assert.Equal(t, 0, Location{Capacity: 10, Demand: 20}.Available())

	assert.Equal(t, Available, ParseAvailability("available"))
	assert.Equal(t, Unavailable, ParseAvailability("on leave"))
	assert.Equal(t, "A", Path{Nodes: []string{"A", "B"}}.Start())
	assert.Equal(t, "", Path{}.Start())
}
