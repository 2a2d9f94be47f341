// Package loader reads the network's source records from CSV files with a
// header row, as exported by the field teams.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"disaster_response/internal/models"
)

// File names inside a data directory.
const (
	NodesFile    = "nodes.txt"
	EdgesFile    = "edges.txt"
	SuppliesFile = "relief_supplies.txt"
	TeamsFile    = "rescue_teams.txt"
	ZonesFile    = "disaster_zones.txt"
)

// table is a parsed CSV body addressed by header name.
type table struct {
	kind    string
	columns map[string]int
	rows    [][]string
}

func readTable(r io.Reader, kind string, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, models.NewDataError(kind, "header", "", models.ErrMissingField)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", kind, err)
	}
	t := &table{kind: kind, columns: make(map[string]int, len(header))}
	for i, h := range header {
		t.columns[normalize(h)] = i
	}
	for _, col := range required {
		if _, ok := t.columns[normalize(col)]; !ok {
			return nil, models.NewDataError(kind, "header", col, models.ErrMissingField)
		}
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s rows: %w", kind, err)
		}
		if blank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func normalize(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// cell returns the trimmed value of col in row, "" when the column is absent.
func (t *table) cell(row []string, col string) string {
	i, ok := t.columns[normalize(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) str(row []string, key, col string) (string, error) {
	v := t.cell(row, col)
	if v == "" {
		return "", models.NewDataError(t.kind, key, col, models.ErrMissingField)
	}
	return v, nil
}

func (t *table) number(row []string, key, col string) (float64, error) {
	v, err := t.str(row, key, col)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, models.NewDataError(t.kind, key, col, fmt.Errorf("%w: %q", models.ErrBadValue, v))
	}
	return f, nil
}

func (t *table) integer(row []string, key, col string) (int, error) {
	v, err := t.str(row, key, col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Integral values exported as "120.0" are accepted.
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, models.NewDataError(t.kind, key, col, fmt.Errorf("%w: %q", models.ErrBadValue, v))
		}
		n = int(f)
	}
	return n, nil
}

// optionalInt is like integer but yields 0 for an empty cell.
func (t *table) optionalInt(row []string, key, col string) (int, error) {
	if t.cell(row, col) == "" {
		return 0, nil
	}
	return t.integer(row, key, col)
}

func rowKey(t *table, row []string, line int, col string) string {
	if v := t.cell(row, col); v != "" {
		return v
	}
	return "line " + strconv.Itoa(line+2)
}

// ReadLocations parses ID,Name,Latitude,Longitude,Type,Capacity,Demand rows.
// Capacity and Demand may be empty, meaning zero.
func ReadLocations(r io.Reader) ([]models.Location, error) {
	t, err := readTable(r, "location", "ID", "Name", "Latitude", "Longitude", "Type")
	if err != nil {
		return nil, err
	}
	out := make([]models.Location, 0, len(t.rows))
	for i, row := range t.rows {
		key := rowKey(t, row, i, "ID")
		var l models.Location
		if l.ID, err = t.str(row, key, "ID"); err != nil {
			return nil, err
		}
		if l.Name, err = t.str(row, key, "Name"); err != nil {
			return nil, err
		}
		if l.Latitude, err = t.number(row, key, "Latitude"); err != nil {
			return nil, err
		}
		if l.Longitude, err = t.number(row, key, "Longitude"); err != nil {
			return nil, err
		}
		typ, terr := t.str(row, key, "Type")
		if terr != nil {
			return nil, terr
		}
		lt, ok := models.ParseLocationType(typ)
		if !ok {
			return nil, models.NewDataError("location", key, "Type", fmt.Errorf("%w: %q", models.ErrUnknownType, typ))
		}
		l.Type = lt
		if l.Capacity, err = t.optionalInt(row, key, "Capacity"); err != nil {
			return nil, err
		}
		if l.Demand, err = t.optionalInt(row, key, "Demand"); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// ReadRoutes parses From,To,Travel_Time_min,Distance_km,Road_Condition rows.
func ReadRoutes(r io.Reader) ([]models.Route, error) {
	t, err := readTable(r, "route", "From", "To", "Travel_Time_min", "Distance_km")
	if err != nil {
		return nil, err
	}
	out := make([]models.Route, 0, len(t.rows))
	for i, row := range t.rows {
		key := "line " + strconv.Itoa(i+2)
		var rt models.Route
		if rt.From, err = t.str(row, key, "From"); err != nil {
			return nil, err
		}
		if rt.To, err = t.str(row, key, "To"); err != nil {
			return nil, err
		}
		if rt.TravelTimeMinutes, err = t.number(row, key, "Travel_Time_min"); err != nil {
			return nil, err
		}
		if rt.DistanceKm, err = t.number(row, key, "Distance_km"); err != nil {
			return nil, err
		}
		rt.RoadCondition = t.cell(row, "Road_Condition")
		out = append(out, rt)
	}
	return out, nil
}

// ReadTeams parses Team_ID,Base_Location,Speed_kmph,Availability rows.
func ReadTeams(r io.Reader) ([]models.RescueTeam, error) {
	t, err := readTable(r, "team", "Team_ID", "Base_Location", "Speed_kmph", "Availability")
	if err != nil {
		return nil, err
	}
	out := make([]models.RescueTeam, 0, len(t.rows))
	for i, row := range t.rows {
		key := rowKey(t, row, i, "Team_ID")
		var tm models.RescueTeam
		if tm.TeamID, err = t.str(row, key, "Team_ID"); err != nil {
			return nil, err
		}
		if tm.BaseLocation, err = t.str(row, key, "Base_Location"); err != nil {
			return nil, err
		}
		if tm.SpeedKmph, err = t.number(row, key, "Speed_kmph"); err != nil {
			return nil, err
		}
		tm.Availability = models.ParseAvailability(t.cell(row, "Availability"))
		out = append(out, tm)
	}
	return out, nil
}

// ReadZoneDemands parses Location_ID,Resource_Type,Amount,Severity_Level rows.
func ReadZoneDemands(r io.Reader) ([]models.ZoneDemand, error) {
	t, err := readTable(r, "zone", "Location_ID", "Resource_Type", "Amount", "Severity_Level")
	if err != nil {
		return nil, err
	}
	out := make([]models.ZoneDemand, 0, len(t.rows))
	for i, row := range t.rows {
		key := rowKey(t, row, i, "Location_ID")
		var z models.ZoneDemand
		if z.LocationID, err = t.str(row, key, "Location_ID"); err != nil {
			return nil, err
		}
		if z.ResourceType, err = t.str(row, key, "Resource_Type"); err != nil {
			return nil, err
		}
		if z.Amount, err = t.integer(row, key, "Amount"); err != nil {
			return nil, err
		}
		if z.SeverityLevel, err = t.integer(row, key, "Severity_Level"); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, nil
}

// ReadSupplies parses Location,Stock_Level,Supply_Type,Vehicle_Capacity rows.
func ReadSupplies(r io.Reader) ([]models.SupplyStock, error) {
	t, err := readTable(r, "supply", "Location", "Stock_Level", "Supply_Type")
	if err != nil {
		return nil, err
	}
	out := make([]models.SupplyStock, 0, len(t.rows))
	for i, row := range t.rows {
		key := rowKey(t, row, i, "Location")
		var s models.SupplyStock
		if s.Location, err = t.str(row, key, "Location"); err != nil {
			return nil, err
		}
		if s.SupplyType, err = t.str(row, key, "Supply_Type"); err != nil {
			return nil, err
		}
		if s.StockLevel, err = t.integer(row, key, "Stock_Level"); err != nil {
			return nil, err
		}
		if s.VehicleCapacity, err = t.optionalInt(row, key, "Vehicle_Capacity"); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadDir reads a data directory. nodes.txt and edges.txt are required; the
// team, zone and supply files are optional.
func LoadDir(dir string) (models.Dataset, error) {
	var ds models.Dataset
	var err error
	if err = readFile(dir, NodesFile, true, func(r io.Reader) error {
		ds.Locations, err = ReadLocations(r)
		return err
	}); err != nil {
		return models.Dataset{}, err
	}
	if err = readFile(dir, EdgesFile, true, func(r io.Reader) error {
		ds.Routes, err = ReadRoutes(r)
		return err
	}); err != nil {
		return models.Dataset{}, err
	}
	if err = readFile(dir, TeamsFile, false, func(r io.Reader) error {
		ds.Teams, err = ReadTeams(r)
		return err
	}); err != nil {
		return models.Dataset{}, err
	}
	if err = readFile(dir, ZonesFile, false, func(r io.Reader) error {
		ds.Zones, err = ReadZoneDemands(r)
		return err
	}); err != nil {
		return models.Dataset{}, err
	}
	if err = readFile(dir, SuppliesFile, false, func(r io.Reader) error {
		ds.Supplies, err = ReadSupplies(r)
		return err
	}); err != nil {
		return models.Dataset{}, err
	}
	return ds, nil
}

func readFile(dir, name string, required bool, parse func(io.Reader) error) error {
	f, err := os.Open(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()
	if err := parse(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// DirSource serves LoadDir for a fixed directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Load(ctx context.Context) (models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return models.Dataset{}, err
	}
	return LoadDir(s.Dir)
}
