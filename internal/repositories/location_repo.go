package repositories

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"disaster_response/internal/models"
)

type LocationRepository struct {
	Driver neo4j.DriverWithContext
}

func NewLocationRepository(driver neo4j.DriverWithContext) *LocationRepository {
	return &LocationRepository{Driver: driver}
}

func (r *LocationRepository) FindAll(ctx context.Context) ([]models.Location, error) {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (l:Location)
        RETURN l.id AS id, l.name AS name, l.type AS type,
               l.latitude AS latitude, l.longitude AS longitude,
               l.capacity AS capacity, l.demand AS demand
        ORDER BY l.id
        `
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return decodeAll(records, decodeLocation)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching locations: %w", err)
	}
	return result.([]models.Location), nil
}

// CreateWithRoutes adds a location and its routes in one transaction. Route
// endpoints other than the new location must already exist.
func (r *LocationRepository) CreateWithRoutes(ctx context.Context, loc models.Location, routes []models.Route) error {
	session := r.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		createQuery := `
        CREATE (l:Location {id: $id, name: $name, type: $type, latitude: $latitude,
                            longitude: $longitude, capacity: $capacity, demand: $demand})
        `
		params := map[string]any{
			"id":        loc.ID,
			"name":      loc.Name,
			"type":      string(loc.Type),
			"latitude":  loc.Latitude,
			"longitude": loc.Longitude,
			"capacity":  loc.Capacity,
			"demand":    loc.Demand,
		}
		if _, err := tx.Run(ctx, createQuery, params); err != nil {
			return nil, fmt.Errorf("error creating location %s: %w", loc.ID, err)
		}

		for _, rt := range routes {
			linkQuery := `
            MATCH (a:Location {id: $from}), (b:Location {id: $to})
            CREATE (a)-[:ROAD {travel_time_minutes: $time, distance_km: $distance, road_condition: $condition, closed: $closed}]->(b)
            RETURN count(*) AS created
            `
			res, err := tx.Run(ctx, linkQuery, map[string]any{
				"from":      rt.From,
				"to":        rt.To,
				"time":      rt.TravelTimeMinutes,
				"distance":  rt.DistanceKm,
				"condition": rt.RoadCondition,
				"closed":    rt.Closed,
			})
			if err != nil {
				return nil, fmt.Errorf("error creating route from %s to %s: %w", rt.From, rt.To, err)
			}
			if err := expectMatched(ctx, res, "created", rt.From+"-"+rt.To); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("error in CreateWithRoutes: %w", err)
	}
	return nil
}
