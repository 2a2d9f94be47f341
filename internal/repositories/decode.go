package repositories

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"disaster_response/internal/models"
)

// recordReader pulls typed values out of a Cypher record, reporting the
// first problem as a DataError for the given record kind.
type recordReader struct {
	rec  *neo4j.Record
	kind string
	key  string
	err  error
}

func newRecordReader(rec *neo4j.Record, kind, keyField string) *recordReader {
	r := &recordReader{rec: rec, kind: kind}
	if v, ok := rec.Get(keyField); ok {
		r.key = fmt.Sprint(v)
	}
	return r
}

func (r *recordReader) fail(field string, cause error) {
	if r.err == nil {
		r.err = models.NewDataError(r.kind, r.key, field, cause)
	}
}

func (r *recordReader) value(field string) (any, bool) {
	v, ok := r.rec.Get(field)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *recordReader) str(field string) string {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, models.ErrMissingField)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, fmt.Errorf("%w: %T", models.ErrBadValue, v))
	}
	return s
}

// optStr is like str but an absent value is not an error.
func (r *recordReader) optStr(field string) string {
	v, ok := r.value(field)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// optBool reads a boolean, false when absent.
func (r *recordReader) optBool(field string) bool {
	v, ok := r.value(field)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(field, fmt.Errorf("%w: %T", models.ErrBadValue, v))
	}
	return b
}

func (r *recordReader) number(field string) float64 {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, models.ErrMissingField)
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	r.fail(field, fmt.Errorf("%w: %T", models.ErrBadValue, v))
	return 0
}

func (r *recordReader) integer(field string) int {
	v, ok := r.value(field)
	if !ok {
		r.fail(field, models.ErrMissingField)
		return 0
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		if n == float64(int64(n)) {
			return int(n)
		}
	}
	r.fail(field, fmt.Errorf("%w: %v", models.ErrBadValue, v))
	return 0
}

// optInt is like integer but an absent value reads as zero.
func (r *recordReader) optInt(field string) int {
	if _, ok := r.value(field); !ok {
		return 0
	}
	return r.integer(field)
}

func decodeLocation(rec *neo4j.Record) (models.Location, error) {
	r := newRecordReader(rec, "location", "id")
	l := models.Location{
		ID:        r.str("id"),
		Name:      r.str("name"),
		Latitude:  r.number("latitude"),
		Longitude: r.number("longitude"),
		Capacity:  r.optInt("capacity"),
		Demand:    r.optInt("demand"),
	}
	typ := r.str("type")
	if r.err != nil {
		return models.Location{}, r.err
	}
	lt, ok := models.ParseLocationType(typ)
	if !ok {
		return models.Location{}, models.NewDataError("location", l.ID, "type", models.ErrUnknownType)
	}
	l.Type = lt
	return l, nil
}

func decodeRoute(rec *neo4j.Record) (models.Route, error) {
	r := newRecordReader(rec, "route", "from")
	rt := models.Route{
		From:              r.str("from"),
		To:                r.str("to"),
		TravelTimeMinutes: r.number("travel_time_minutes"),
		DistanceKm:        r.number("distance_km"),
		RoadCondition:     r.optStr("road_condition"),
		Closed:            r.optBool("closed"),
	}
	return rt, r.err
}

func decodeTeam(rec *neo4j.Record) (models.RescueTeam, error) {
	r := newRecordReader(rec, "team", "team_id")
	t := models.RescueTeam{
		TeamID:       r.str("team_id"),
		BaseLocation: r.str("base_location"),
		SpeedKmph:    r.number("speed_kmph"),
		Availability: models.ParseAvailability(r.optStr("availability")),
	}
	return t, r.err
}

func decodeZoneDemand(rec *neo4j.Record) (models.ZoneDemand, error) {
	r := newRecordReader(rec, "zone", "location_id")
	z := models.ZoneDemand{
		LocationID:    r.str("location_id"),
		ResourceType:  r.str("resource_type"),
		Amount:        r.integer("amount"),
		SeverityLevel: r.integer("severity_level"),
	}
	return z, r.err
}

func decodeSupply(rec *neo4j.Record) (models.SupplyStock, error) {
	r := newRecordReader(rec, "supply", "location")
	s := models.SupplyStock{
		Location:        r.str("location"),
		SupplyType:      r.str("supply_type"),
		StockLevel:      r.integer("stock_level"),
		VehicleCapacity: r.optInt("vehicle_capacity"),
	}
	return s, r.err
}

// decodeAll applies decode to every record, stopping at the first error.
func decodeAll[T any](records []*neo4j.Record, decode func(*neo4j.Record) (T, error)) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
