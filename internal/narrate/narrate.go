// Package narrate turns a location path into readable route steps.
package narrate

import (
	"fmt"

	"disaster_response/internal/models"
)

// Lookup resolves location ids. *models.Graph satisfies it.
type Lookup interface {
	Location(id string) (models.Location, bool)
}

// Describe returns one step per path node: "Start at", "Continue through" and
// "Arrive at". A single-node path yields only its start step. An id missing
// from lookup is a data error; no step is ever dropped.
func Describe(path []string, lookup Lookup) ([]string, error) {
	steps := make([]string, 0, len(path))
	for i, id := range path {
		loc, ok := lookup.Location(id)
		if !ok {
			return nil, models.NewDataError("location", id, "id", models.ErrUnknownLocation)
		}
		switch {
		case i == 0:
			steps = append(steps, fmt.Sprintf("Start at %s", loc.Name))
		case i == len(path)-1:
			steps = append(steps, fmt.Sprintf("Arrive at %s", loc.Name))
		default:
			steps = append(steps, fmt.Sprintf("Continue through %s", loc.Name))
		}
	}
	return steps, nil
}

// MapLookup adapts a plain map to Lookup.
type MapLookup map[string]models.Location

func (m MapLookup) Location(id string) (models.Location, bool) {
	l, ok := m[id]
	return l, ok
}
