package repositories

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"disaster_response/internal/models"
)

// Source loads a whole Dataset from Neo4j and applies network mutations.
type Source struct {
	Locations *LocationRepository
	Routes    *RouteRepository
	Response  *ResponseRepository
}

func NewSource(driver neo4j.DriverWithContext) *Source {
	return &Source{
		Locations: NewLocationRepository(driver),
		Routes:    NewRouteRepository(driver),
		Response:  NewResponseRepository(driver),
	}
}

func (s *Source) Load(ctx context.Context) (models.Dataset, error) {
	var ds models.Dataset
	var err error
	if ds.Locations, err = s.Locations.FindAll(ctx); err != nil {
		return models.Dataset{}, err
	}
	if ds.Routes, err = s.Routes.FindAll(ctx); err != nil {
		return models.Dataset{}, err
	}
	if ds.Teams, err = s.Response.Teams(ctx); err != nil {
		return models.Dataset{}, err
	}
	if ds.Zones, err = s.Response.ZoneDemands(ctx); err != nil {
		return models.Dataset{}, err
	}
	if ds.Supplies, err = s.Response.Supplies(ctx); err != nil {
		return models.Dataset{}, err
	}
	return ds, nil
}

func (s *Source) SetClosed(ctx context.Context, from, to string, closed bool) error {
	return s.Routes.SetClosed(ctx, from, to, closed)
}

func (s *Source) UpdateTravelTime(ctx context.Context, from, to string, minutes float64) error {
	return s.Routes.UpdateTravelTime(ctx, from, to, minutes)
}

func (s *Source) AddLocation(ctx context.Context, loc models.Location, routes []models.Route) error {
	return s.Locations.CreateWithRoutes(ctx, loc, routes)
}
