package repositories

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"disaster_response/internal/models"
)

// ResponseRepository reads the response resources attached to the network:
// rescue teams, disaster zone demand lines and relief supply stock.
type ResponseRepository struct {
	Driver neo4j.DriverWithContext
}

func NewResponseRepository(driver neo4j.DriverWithContext) *ResponseRepository {
	return &ResponseRepository{Driver: driver}
}

const teamsQuery = `
MATCH (t:RescueTeam)-[:BASED_AT]->(l:Location)
RETURN t.team_id AS team_id, l.id AS base_location, t.speed_kmph AS speed_kmph, t.availability AS availability
ORDER BY t.team_id
`

// Zone demand lines keep their load order through the seq property.
const zoneDemandsQuery = `
MATCH (z:ZoneDemand)
RETURN z.location_id AS location_id, z.resource_type AS resource_type,
       z.amount AS amount, z.severity_level AS severity_level
ORDER BY z.seq
`

const suppliesQuery = `
MATCH (l:Location)-[s:STOCKS]->(:Supply)
RETURN l.id AS location, s.supply_type AS supply_type,
       s.stock_level AS stock_level, s.vehicle_capacity AS vehicle_capacity
ORDER BY location, supply_type
`

func (r *ResponseRepository) Teams(ctx context.Context) ([]models.RescueTeam, error) {
	return readAll(ctx, r.Driver, teamsQuery, decodeTeam)
}

func (r *ResponseRepository) ZoneDemands(ctx context.Context) ([]models.ZoneDemand, error) {
	return readAll(ctx, r.Driver, zoneDemandsQuery, decodeZoneDemand)
}

func (r *ResponseRepository) Supplies(ctx context.Context) ([]models.SupplyStock, error) {
	return readAll(ctx, r.Driver, suppliesQuery, decodeSupply)
}

func readAll[T any](ctx context.Context, driver neo4j.DriverWithContext, query string, decode func(*neo4j.Record) (T, error)) ([]T, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return decodeAll(records, decode)
	})
	if err != nil {
		return nil, fmt.Errorf("error running read query: %w", err)
	}
	return result.([]T), nil
}
