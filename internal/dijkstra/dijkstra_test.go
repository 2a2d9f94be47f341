package dijkstra

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disaster_response/internal/models"
)

func node(id string, t models.LocationType) models.Location {
	return models.Location{ID: id, Name: "Loc " + id, Type: t}
}

func mustGraph(t *testing.T, locs []models.Location, routes []models.Route) *models.Graph {
	t.Helper()
	g, err := models.BuildGraph(locs, routes)
	require.NoError(t, err)
	return g
}

func TestShortestPathSingleEdge(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{
			{ID: "A", Name: "Area", Type: models.AffectedArea, Demand: 100},
			{ID: "S", Name: "Shelter", Type: models.Shelter, Capacity: 150, Demand: 20},
		},
		[]models.Route{{From: "A", To: "S", TravelTimeMinutes: 10}},
	)
	p, ok, err := FindNearest(g, "A", models.Shelter)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "S", p.Target)
	assert.Equal(t, 10.0, p.Time)
	assert.Equal(t, []string{"A", "S"}, p.Nodes)
}

func TestShortestPathToSelf(t *testing.T) {
	g := mustGraph(t, []models.Location{node("A", models.Shelter)}, nil)
	p, ok, err := ShortestPath(g, "A", "A")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, p.Nodes)
	assert.Equal(t, 0.0, p.Time)
}

func TestShortestPathDisconnected(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{node("A", models.AffectedArea), node("B", models.Hospital), node("C", models.Hospital)},
		[]models.Route{{From: "B", To: "C", TravelTimeMinutes: 2}},
	)
	_, ok, err := ShortestPath(g, "A", "B")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = FindNearest(g, "A", models.Hospital)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShortestPathUnknownNodes(t *testing.T) {
	g := mustGraph(t, []models.Location{node("A", models.Shelter)}, nil)
	_, _, err := ShortestPath(g, "X", "A")
	assert.ErrorIs(t, err, models.ErrUnknownLocation)
	_, _, err = ShortestPath(g, "A", "X")
	assert.ErrorIs(t, err, models.ErrUnknownLocation)
	_, _, err = FindNearest(g, "X", models.Shelter)
	assert.True(t, models.IsDataError(err))
}

func TestShortestPathPrefersCheaperDetour(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{node("A", models.AffectedArea), node("B", models.Shelter), node("C", models.Hospital)},
		[]models.Route{
			{From: "A", To: "C", TravelTimeMinutes: 10},
			{From: "A", To: "B", TravelTimeMinutes: 3},
			{From: "B", To: "C", TravelTimeMinutes: 4},
		},
	)
	p, ok, err := ShortestPath(g, "A", "C")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, p.Nodes)
	assert.Equal(t, 7.0, p.Time)
}

func TestEqualCostPathsAreReproducible(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{node("A", models.AffectedArea), node("M2", models.Shelter), node("M1", models.Shelter), node("Z", models.Hospital)},
		[]models.Route{
			{From: "A", To: "M2", TravelTimeMinutes: 1},
			{From: "A", To: "M1", TravelTimeMinutes: 1},
			{From: "M2", To: "Z", TravelTimeMinutes: 1},
			{From: "M1", To: "Z", TravelTimeMinutes: 1},
		},
	)
	for i := 0; i < 20; i++ {
		p, ok, err := ShortestPath(g, "A", "Z")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []string{"A", "M1", "Z"}, p.Nodes)
	}
}

func TestNearestTieGoesToLowestID(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{node("A", models.AffectedArea), node("H2", models.Hospital), node("H1", models.Hospital)},
		[]models.Route{
			{From: "A", To: "H2", TravelTimeMinutes: 5},
			{From: "A", To: "H1", TravelTimeMinutes: 5},
		},
	)
	p, ok, err := FindNearest(g, "A", models.Hospital)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "H1", p.Target)
}

func TestNearestWithNoFacilityOfType(t *testing.T) {
	g := mustGraph(t, []models.Location{node("A", models.AffectedArea)}, nil)
	_, ok, err := FindNearest(g, "A", models.Warehouse)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAvoidTypesBlocksTransitOnly(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{node("R", models.RescueBase), node("X", models.AffectedArea), node("Y", models.AffectedArea), node("H", models.Hospital)},
		[]models.Route{
			{From: "R", To: "X", TravelTimeMinutes: 1},
			{From: "X", To: "H", TravelTimeMinutes: 1},
			{From: "R", To: "H", TravelTimeMinutes: 10},
			{From: "H", To: "Y", TravelTimeMinutes: 2},
		},
	)
	p, _, err := ShortestPath(g, "R", "H")
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.Time)

	p, ok, err := ShortestPath(g, "R", "H", AvoidTypes(models.AffectedArea))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"R", "H"}, p.Nodes)

	// affected areas remain valid endpoints
	p, ok, err = ShortestPath(g, "X", "Y", AvoidTypes(models.AffectedArea))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"X", "H", "Y"}, p.Nodes)
}

func TestSkipRoadConditions(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{node("A", models.AffectedArea), node("B", models.Shelter), node("C", models.Hospital)},
		[]models.Route{
			{From: "A", To: "C", TravelTimeMinutes: 2, RoadCondition: "Closed"},
			{From: "A", To: "B", TravelTimeMinutes: 3},
			{From: "B", To: "C", TravelTimeMinutes: 4},
		},
	)
	p, _, err := ShortestPath(g, "A", "C", SkipRoadConditions("closed"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, p.Nodes)

	p, _, err = ShortestPath(g, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, p.Nodes)
}

func TestSkipClosedIgnoresRoadCondition(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{node("A", models.AffectedArea), node("B", models.Shelter), node("C", models.Hospital)},
		[]models.Route{
			{From: "A", To: "C", TravelTimeMinutes: 2, Closed: true},
			{From: "A", To: "B", TravelTimeMinutes: 3, RoadCondition: "Closed"},
			{From: "B", To: "C", TravelTimeMinutes: 4},
		},
	)
	p, ok, err := ShortestPath(g, "A", "C", SkipClosed())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, p.Nodes)
	assert.Equal(t, 7.0, p.Time)

	p, _, err = ShortestPath(g, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, p.Nodes)
}

func TestKeyIsStable(t *testing.T) {
	a := Key(SkipRoadConditions("Closed"), AvoidTypes(models.AffectedArea))
	b := Key(AvoidTypes(models.AffectedArea), SkipRoadConditions(" closed "))
	assert.Equal(t, a, b)
	assert.Equal(t, "", Key())
	assert.Equal(t, "closed", Key(SkipClosed()))
	assert.NotEqual(t, Key(SkipClosed()), Key(SkipRoadConditions("closed")))
}

func TestTreeDistance(t *testing.T) {
	g := mustGraph(t,
		[]models.Location{node("A", models.AffectedArea), node("B", models.Shelter), node("C", models.Shelter)},
		[]models.Route{{From: "A", To: "B", TravelTimeMinutes: 4}},
	)
	tree, err := Search(g, "A")
	require.NoError(t, err)
	assert.Equal(t, 4.0, tree.Distance("B"))
	assert.True(t, math.IsInf(tree.Distance("C"), 1))
	assert.True(t, math.IsInf(tree.Distance("ghost"), 1))
}

// bruteForce enumerates every simple path from a to b.
func bruteForce(g *models.Graph, a, b string) float64 {
	best := math.Inf(1)
	visited := map[string]bool{a: true}
	var walk func(cur string, cost float64)
	walk = func(cur string, cost float64) {
		if cur == b {
			best = math.Min(best, cost)
			return
		}
		for _, e := range g.Neighbors(cur) {
			if visited[e.Item] {
				continue
			}
			visited[e.Item] = true
			walk(e.Item, cost+e.Cost)
			visited[e.Item] = false
		}
	}
	walk(a, 0)
	return best
}

func TestShortestPathMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 30; round++ {
		n := 3 + rng.Intn(5)
		var locs []models.Location
		for i := 0; i < n; i++ {
			locs = append(locs, node("N"+strconv.Itoa(i), models.Shelter))
		}
		var routes []models.Route
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Float64() < 0.5 {
					routes = append(routes, models.Route{
						From:              locs[i].ID,
						To:                locs[j].ID,
						TravelTimeMinutes: float64(1 + rng.Intn(20)),
					})
				}
			}
		}
		g := mustGraph(t, locs, routes)
		for _, a := range g.IDs() {
			for _, b := range g.IDs() {
				want := bruteForce(g, a, b)
				p, ok, err := ShortestPath(g, a, b)
				require.NoError(t, err)
				if math.IsInf(want, 1) {
					assert.False(t, ok, "%s->%s", a, b)
					continue
				}
				require.True(t, ok, "%s->%s", a, b)
				assert.InDelta(t, want, p.Time, 1e-9)

				sum := 0.0
				for i := 1; i < len(p.Nodes); i++ {
					w, ok := g.Weight(p.Nodes[i-1], p.Nodes[i])
					require.True(t, ok)
					sum += w
				}
				assert.InDelta(t, p.Time, sum, 1e-9)
				assert.Equal(t, a, p.Nodes[0])
				assert.Equal(t, b, p.Nodes[len(p.Nodes)-1])
			}
		}
	}
}
