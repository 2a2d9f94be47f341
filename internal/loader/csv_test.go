package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disaster_response/internal/models"
)

func TestReadLocations(t *testing.T) {
	in := "\ufeffID,Name,Latitude,Longitude,Type,Capacity,Demand\n" +
		"A1,Patel Nagar,28.6,77.1,Affected_Area,,50\n" +
		"\n" +
		"H1, City Hospital ,28.7,77.2,hospital,120.0,\n"
	locs, err := ReadLocations(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, models.Location{ID: "A1", Name: "Patel Nagar", Type: models.AffectedArea, Latitude: 28.6, Longitude: 77.1, Demand: 50}, locs[0])
	assert.Equal(t, "City Hospital", locs[1].Name)
	assert.Equal(t, 120, locs[1].Capacity)
}

func TestReadLocationsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", models.ErrMissingField},
		{"missing column", "ID,Name,Latitude,Longitude\nA,B,1,2\n", models.ErrMissingField},
		{"bad number", "ID,Name,Latitude,Longitude,Type\nA,B,north,2,shelter\n", models.ErrBadValue},
		{"unknown type", "ID,Name,Latitude,Longitude,Type\nA,B,1,2,castle\n", models.ErrUnknownType},
		{"missing name", "ID,Name,Latitude,Longitude,Type\nA,,1,2,shelter\n", models.ErrMissingField},
		{"fractional capacity", "ID,Name,Latitude,Longitude,Type,Capacity\nA,B,1,2,shelter,1.5\n", models.ErrBadValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLocations(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, models.IsDataError(err))
		})
	}
}

func TestReadRoutes(t *testing.T) {
	in := "From,To,Travel_Time_min,Distance_km,Road_Condition\nA1,H1,12.5,3.2,Good\nA1,S1,4,1,\n"
	routes, err := ReadRoutes(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, models.Route{From: "A1", To: "H1", TravelTimeMinutes: 12.5, DistanceKm: 3.2, RoadCondition: "Good"}, routes[0])
	assert.Empty(t, routes[1].RoadCondition)

	_, err = ReadRoutes(strings.NewReader("From,To,Travel_Time_min,Distance_km\nA1,H1,soon,1\n"))
	assert.ErrorIs(t, err, models.ErrBadValue)
}

func TestReadTeamsZonesSupplies(t *testing.T) {
	teams, err := ReadTeams(strings.NewReader("Team_ID,Base_Location,Speed_kmph,Availability\nT1,R1,45,available\nT2,R1,60,Busy\n"))
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.True(t, teams[0].IsAvailable())
	assert.False(t, teams[1].IsAvailable())

	zones, err := ReadZoneDemands(strings.NewReader("Location_ID,Resource_Type,Amount,Severity_Level\nA1,Food,100,5\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.ZoneDemand{{LocationID: "A1", ResourceType: "Food", Amount: 100, SeverityLevel: 5}}, zones)

	supplies, err := ReadSupplies(strings.NewReader("Location,Stock_Level,Supply_Type,Vehicle_Capacity\nW1,300,Food,\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.SupplyStock{{Location: "W1", SupplyType: "Food", StockLevel: 300}}, supplies)
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, NodesFile, "ID,Name,Latitude,Longitude,Type\nA,Area,1,1,affected_area\nH,Hosp,1,2,hospital\n")
	writeFile(t, dir, EdgesFile, "From,To,Travel_Time_min,Distance_km\nA,H,5,1\n")
	writeFile(t, dir, TeamsFile, "Team_ID,Base_Location,Speed_kmph,Availability\nT1,H,50,Available\n")

	ds, err := DirSource{Dir: dir}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Locations, 2)
	assert.Len(t, ds.Routes, 1)
	assert.Len(t, ds.Teams, 1)
	assert.Empty(t, ds.Zones)
	assert.Empty(t, ds.Supplies)

	n, err := ds.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, n.Graph.EdgeCount())
}

func TestLoadDirRequiresNodesAndEdges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, NodesFile, "ID,Name,Latitude,Longitude,Type\nA,Area,1,1,affected_area\n")
	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EdgesFile)
}

func TestLoadSampleData(t *testing.T) {
	ds, err := LoadDir(filepath.Join("..", "..", "data"))
	require.NoError(t, err)
	n, err := ds.Build()
	require.NoError(t, err)
	assert.Equal(t, 10, n.Graph.Len())
	assert.Len(t, n.Teams, 4)
}

func TestDirSourceHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DirSource{Dir: t.TempDir()}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
