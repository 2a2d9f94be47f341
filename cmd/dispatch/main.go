// Command dispatch plans the response to one disaster location: nearest
// hospital and shelter, supply shipments and the rescue team to send.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"disaster_response/internal/allocation"
	"disaster_response/internal/config"
	"disaster_response/internal/dijkstra"
	"disaster_response/internal/loader"
	"disaster_response/internal/logging"
	"disaster_response/internal/models"
	"disaster_response/internal/narrate"
)

func main() {
	cfg := config.LoadConfig()
	dataDir := flag.String("data", cfg.DataDir, "directory holding the CSV record files")
	where := flag.String("location", "", "disaster location name or id (prompted when empty)")
	avoid := flag.Bool("avoid-affected", cfg.AvoidAffected, "do not route through other affected areas")
	batch := flag.Bool("batch", false, "also print the full distribution and allocation reports")
	flag.Parse()

	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel)

	ds, err := loader.LoadDir(*dataDir)
	if err != nil {
		logger.Error("load_failed", "dir", *dataDir, "err", err)
		os.Exit(1)
	}
	n, err := ds.Build()
	if err != nil {
		logger.Error("build_failed", "err", err)
		os.Exit(1)
	}

	name := strings.TrimSpace(*where)
	if name == "" {
		fmt.Print("Enter disaster location name: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		name = strings.TrimSpace(line)
	}
	zone, ok := resolve(n.Graph, name)
	if !ok {
		fmt.Fprintf(os.Stderr, "location not found: %s\n", name)
		os.Exit(1)
	}

	var opts []dijkstra.Option
	if *avoid {
		opts = append(opts, dijkstra.AvoidTypes(models.AffectedArea))
	}
	if len(cfg.SkipConditions) > 0 {
		opts = append(opts, dijkstra.SkipRoadConditions(cfg.SkipConditions...))
	}
	router := allocation.NewRouter(n.Graph, opts...)
	if err := report(os.Stdout, n, router, zone, cfg.ReferenceSpeed, *batch); err != nil {
		logger.Error("dispatch_failed", "zone", zone.ID, "err", err)
		os.Exit(1)
	}
}

// resolve matches a location by exact name first, then by id.
func resolve(g *models.Graph, s string) (models.Location, bool) {
	for _, l := range g.Locations() {
		if l.Name == s {
			return l, true
		}
	}
	return g.Location(s)
}

func report(w io.Writer, n *models.Network, r allocation.Router, zone models.Location, refSpeed float64, batch bool) error {
	tree, err := r.Tree(zone.ID)
	if err != nil {
		return err
	}
	for _, ft := range []models.LocationType{models.Hospital, models.Shelter} {
		p, ok := tree.Nearest(n.Graph, ft)
		if !ok {
			fmt.Fprintf(w, "\nNo %s reachable from %s\n", ft, zone.Name)
			continue
		}
		target, _ := n.Graph.Location(p.Target)
		fmt.Fprintf(w, "\nNearest %s to %s is %s (%s), %.1f min\n", ft, zone.Name, target.Name, target.ID, p.Time)
		if err := printSteps(w, n.Graph, p.Nodes); err != nil {
			return err
		}
	}

	rep, found, err := allocation.DispatchSupplies(n.Graph, r, n.Supplies, n.Zones, zone.ID)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(w, "\nNo supply demand recorded for %s\n", zone.Name)
	}
	for _, res := range rep.Resources {
		fmt.Fprintf(w, "\n%s: %d required\n", res.ResourceType, res.Required)
		for _, s := range res.Shipments {
			from, _ := n.Graph.Location(s.From)
			fmt.Fprintf(w, "  %d from %s (%.1f min)\n", s.Amount, from.Name, s.TravelTime)
		}
		if res.Shortfall > 0 {
			fmt.Fprintf(w, "  shortfall %d\n", res.Shortfall)
		}
	}

	alloc, ok, err := allocation.AllocateForZone(n.Graph, r, n.Teams, n.Zones, zone.ID, allocation.WithReferenceSpeed(refSpeed))
	if err != nil {
		return err
	}
	if ok {
		base, _ := n.Graph.Location(alloc.BaseLocation)
		fmt.Fprintf(w, "\nRescue team %s based at %s assigned to %s, %.1f min\n", alloc.TeamID, base.Name, zone.Name, alloc.EstimatedTime)
		if err := printSteps(w, n.Graph, alloc.Path); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "\nNo rescue team available for %s\n", zone.Name)
	}

	if !batch {
		return nil
	}
	d, err := allocation.DistributeHospitalDemand(n.Graph, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nHospital distribution, unmet demand %d\n", d.TotalUnmet())
	for _, h := range n.Graph.Locations(models.Hospital) {
		for _, a := range d.Assignments[h.ID] {
			fmt.Fprintf(w, "  %s <- %s: %d (%.1f min)\n", h.Name, a.AreaName, a.AssignedAmount, a.TravelTime)
		}
	}
	all, err := allocation.AllocateRescueTeams(n.Graph, r, n.Teams, n.Zones, allocation.WithReferenceSpeed(refSpeed))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nRescue team allocation")
	for _, a := range all.Allocations {
		fmt.Fprintf(w, "  %s -> %s (severity %d, %.1f min)\n", a.TeamID, a.ZoneID, a.Severity, a.EstimatedTime)
	}
	for _, z := range all.Unallocated {
		fmt.Fprintf(w, "  %s unallocated\n", z)
	}
	return nil
}

func printSteps(w io.Writer, g *models.Graph, path []string) error {
	steps, err := narrate.Describe(path, g)
	if err != nil {
		return err
	}
	for _, s := range steps {
		fmt.Fprintf(w, "  %s\n", s)
	}
	return nil
}
