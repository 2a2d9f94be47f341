package narrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disaster_response/internal/models"
)

var lookup = MapLookup{
	"A": {ID: "A", Name: "Patel Nagar"},
	"B": {ID: "B", Name: "Karol Bagh"},
	"C": {ID: "C", Name: "City Hospital"},
}

func TestDescribe(t *testing.T) {
	steps, err := Describe([]string{"A", "B", "C"}, lookup)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Start at Patel Nagar",
		"Continue through Karol Bagh",
		"Arrive at City Hospital",
	}, steps)
}

func TestDescribeShortPaths(t *testing.T) {
	steps, err := Describe([]string{"A"}, lookup)
	require.NoError(t, err)
	assert.Equal(t, []string{"Start at Patel Nagar"}, steps)

	steps, err = Describe([]string{"A", "C"}, lookup)
	require.NoError(t, err)
	assert.Equal(t, []string{"Start at Patel Nagar", "Arrive at City Hospital"}, steps)

	steps, err = Describe(nil, lookup)
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestDescribeUnknownID(t *testing.T) {
	_, err := Describe([]string{"A", "X", "C"}, lookup)
	assert.ErrorIs(t, err, models.ErrUnknownLocation)
	assert.True(t, models.IsDataError(err))
}

func TestDescribeWithGraph(t *testing.T) {
	g, err := models.BuildGraph([]models.Location{
		{ID: "A", Name: "Area", Type: models.AffectedArea},
		{ID: "H", Name: "Hospital", Type: models.Hospital},
	}, []models.Route{{From: "A", To: "H", TravelTimeMinutes: 4}})
	require.NoError(t, err)

	steps, err := Describe([]string{"A", "H"}, g)
	require.NoError(t, err)
	assert.Equal(t, []string{"Start at Area", "Arrive at Hospital"}, steps)
}
