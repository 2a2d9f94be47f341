package dijkstra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disaster_response/internal/models"
)

func islandGraph(t *testing.T) *models.Graph {
	return mustGraph(t,
		[]models.Location{
			node("A", models.AffectedArea), node("H1", models.Hospital), node("S1", models.Shelter),
			node("S2", models.Shelter), node("W9", models.Warehouse),
		},
		[]models.Route{
			{From: "A", To: "H1", TravelTimeMinutes: 4},
			{From: "A", To: "S1", TravelTimeMinutes: 9},
			{From: "H1", To: "S2", TravelTimeMinutes: 2, RoadCondition: "Closed"},
		},
	)
}

func TestReachable(t *testing.T) {
	g := islandGraph(t)
	acc, inacc, err := Reachable(g, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "H1", "S1", "S2"}, acc)
	assert.Equal(t, []string{"W9"}, inacc)

	acc, inacc, err = Reachable(g, "A", SkipRoadConditions("Closed"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "H1", "S1"}, acc)
	assert.Equal(t, []string{"S2", "W9"}, inacc)

	_, _, err = Reachable(g, "ghost")
	assert.ErrorIs(t, err, models.ErrUnknownLocation)
}

func TestWithinTime(t *testing.T) {
	g := islandGraph(t)

	paths, err := WithinTime(g, "A", 9, "")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "H1", paths[0].Target)
	assert.Equal(t, "S2", paths[1].Target)
	assert.Equal(t, 6.0, paths[1].Time)

	paths, err = WithinTime(g, "A", 10, models.Shelter)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "S2", paths[0].Target)
	assert.Equal(t, "S1", paths[1].Target)

	paths, err = WithinTime(g, "A", 0, "")
	require.NoError(t, err)
	assert.Empty(t, paths)
}
