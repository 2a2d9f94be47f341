package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"disaster_response/internal/models"
)

// ErrRouteNotFound is returned when no route joins the two locations.
var ErrRouteNotFound = errors.New("route not found")

// RouteRepository handles database operations related to routes.
type RouteRepository struct {
	Driver neo4j.DriverWithContext
}

// NewRouteRepository creates a new instance of RouteRepository.
func NewRouteRepository(driver neo4j.DriverWithContext) *RouteRepository {
	return &RouteRepository{Driver: driver}
}

// FindAll returns every ROAD relationship once, in either stored direction.
func (r *RouteRepository) FindAll(ctx context.Context) ([]models.Route, error) {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (a:Location)-[r:ROAD]->(b:Location)
        RETURN a.id AS from, b.id AS to, r.travel_time_minutes AS travel_time_minutes,
               r.distance_km AS distance_km, r.road_condition AS road_condition,
               coalesce(r.closed, false) AS closed
        ORDER BY from, to
        `
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, fmt.Errorf("error running query for routes: %w", err)
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return decodeAll(records, decodeRoute)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching routes: %w", err)
	}
	return result.([]models.Route), nil
}

// SetClosed closes or reopens the road between two locations, whichever
// direction it was stored in. The road condition is left untouched.
func (r *RouteRepository) SetClosed(ctx context.Context, from, to string, closed bool) error {
	query := `
    MATCH (:Location {id: $from})-[rel:ROAD]-(:Location {id: $to})
    SET rel.closed = $closed
    RETURN count(rel) AS updated
    `
	err := r.update(ctx, query, map[string]any{"from": from, "to": to, "closed": closed}, from+"-"+to)
	if err != nil {
		return fmt.Errorf("error setting closed=%t between %s and %s: %w", closed, from, to, err)
	}
	return nil
}

// UpdateTravelTime sets the travel time of the route between two locations.
func (r *RouteRepository) UpdateTravelTime(ctx context.Context, from, to string, minutes float64) error {
	if minutes <= 0 {
		return models.NewDataError("route", from+"-"+to, "travel_time_minutes", models.ErrBadWeight)
	}
	query := `
    MATCH (:Location {id: $from})-[rel:ROAD]-(:Location {id: $to})
    SET rel.travel_time_minutes = $minutes
    RETURN count(rel) AS updated
    `
	err := r.update(ctx, query, map[string]any{"from": from, "to": to, "minutes": minutes}, from+"-"+to)
	if err != nil {
		return fmt.Errorf("error updating travel time between %s and %s: %w", from, to, err)
	}
	return nil
}

func (r *RouteRepository) update(ctx context.Context, query string, params map[string]any, key string) error {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return nil, expectMatched(ctx, res, "updated", key)
	})
	return err
}

// expectMatched reads a single count column and fails with ErrRouteNotFound
// when it is zero.
func expectMatched(ctx context.Context, res neo4j.ResultWithContext, column, key string) error {
	rec, err := res.Single(ctx)
	if err != nil {
		return err
	}
	v, _ := rec.Get(column)
	if n, ok := v.(int64); !ok || n == 0 {
		return fmt.Errorf("%s: %w", key, ErrRouteNotFound)
	}
	return nil
}
