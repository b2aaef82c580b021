package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/ptv-mcp-go/internal/config"
	"github.com/jusunglee/ptv-mcp-go/internal/logging"
	"github.com/jusunglee/ptv-mcp-go/internal/models"
	"github.com/jusunglee/ptv-mcp-go/pkg/ptv"

	_ "time/tzdata"
)

var melbourne = loadMelbourne()

func loadMelbourne() *time.Location {
	loc, err := time.LoadLocation("Australia/Melbourne")
	if err != nil {
		return time.UTC
	}
	return loc
}

func main() {
	logging.Setup(strings.ToUpper(os.Getenv(config.EnvLogFormat)), os.Getenv(config.EnvDebug) == "YES")

	routeTypeFlag := &cli.StringFlag{
		Name:    "route-type",
		Aliases: []string{"t"},
		Value:   "train",
		Usage:   "transport mode: train, tram, bus, vline, nightbus or 0-4",
	}
	routeTypesFlag := &cli.StringSliceFlag{
		Name:    "route-types",
		Aliases: []string{"t"},
		Usage:   "filter by transport modes, e.g. -t tram -t bus",
	}

	app := &cli.App{
		Name:  "ptv",
		Usage: "query the PTV Timetable API from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "optional YAML config file"},
		},
		Commands: []*cli.Command{
			{
				Name:      "departures",
				Usage:     "next departures from a stop",
				ArgsUsage: "STOP_ID",
				Flags: []cli.Flag{
					routeTypeFlag,
					&cli.IntFlag{Name: "max", Aliases: []string{"n"}, Value: models.DefaultMaxResults},
					&cli.IntFlag{Name: "route", Usage: "only this route id"},
				},
				Action: departures,
			},
			{
				Name:      "stops",
				Usage:     "search stops by name",
				ArgsUsage: "NAME",
				Flags:     []cli.Flag{routeTypesFlag},
				Action:    stops,
			},
			{
				Name:  "routes",
				Usage: "list routes",
				Flags: []cli.Flag{
					routeTypesFlag,
					&cli.StringFlag{Name: "name", Usage: "route name filter"},
					&cli.IntFlag{Name: "id", Usage: "fetch one route"},
				},
				Action: routes,
			},
			{
				Name:  "disruptions",
				Usage: "list service disruptions",
				Flags: []cli.Flag{
					routeTypesFlag,
					&cli.IntFlag{Name: "route", Usage: "only this route id"},
					&cli.StringFlag{Name: "status", Usage: "current or planned"},
				},
				Action: disruptions,
			},
			{
				Name:   "route-types",
				Usage:  "list transport modes",
				Action: routeTypes,
			},
			{
				Name:   "status",
				Usage:  "current disruption count for every transport mode",
				Action: status,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func newClient(c *cli.Context) (*ptv.RemoteClient, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Format, cfg.Log.Debug)
	return ptv.NewRemote(cfg.Client())
}

func departures(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	routeType, err := models.ParseRouteType(c.String("route-type"))
	if err != nil {
		return err
	}
	var stopID int
	if _, err := fmt.Sscan(c.Args().First(), &stopID); err != nil {
		return fmt.Errorf("stop id required: %w", err)
	}

	deps, err := client.GetDepartures(c.Context, models.DeparturesQuery{
		StopID:     stopID,
		RouteType:  routeType,
		MaxResults: c.Int("max"),
		RouteID:    c.Int("route"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nDepartures from stop %d (%s):\n", stopID, routeType)
	for _, d := range deps {
		when := d.ScheduledUTC.In(melbourne).Format("3:04 PM")
		if d.EstimatedUTC != nil {
			when += fmt.Sprintf(" (est. %s)", d.EstimatedUTC.In(melbourne).Format("3:04 PM"))
		}
		fmt.Printf("  Route %d - %s", d.RouteID, when)
		if d.Platform != "" {
			fmt.Printf("  Platform %s", d.Platform)
		}
		fmt.Println()
	}
	return nil
}

func stops(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	types, err := models.ParseRouteTypes(c.StringSlice("route-types"))
	if err != nil {
		return err
	}

	name := strings.Join(c.Args().Slice(), " ")
	result, err := client.SearchStops(c.Context, models.StopQuery{Name: name, RouteTypes: types})
	if err != nil {
		return err
	}

	fmt.Printf("\nStops matching '%s':\n", name)
	for _, s := range result {
		fmt.Printf("- %s (%d) %s, %s\n", s.Name, s.ID, s.RouteType, s.Suburb)
	}
	return nil
}

func routes(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	types, err := models.ParseRouteTypes(c.StringSlice("route-types"))
	if err != nil {
		return err
	}

	result, err := client.GetRoutes(c.Context, models.RouteFilter{
		RouteTypes: types,
		RouteID:    c.Int("id"),
		RouteName:  c.String("name"),
	})
	if err != nil {
		return err
	}

	for _, r := range result {
		fmt.Printf("- %s (%d) %s\n", r.Name, r.ID, r.RouteType)
	}
	return nil
}

func disruptions(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	types, err := models.ParseRouteTypes(c.StringSlice("route-types"))
	if err != nil {
		return err
	}

	result, err := client.GetDisruptions(c.Context, models.DisruptionFilter{
		RouteTypes: types,
		RouteID:    c.Int("route"),
		Status:     c.String("status"),
	})
	if err != nil {
		return err
	}

	for _, d := range result {
		fmt.Printf("\n[%s] %s (%s)\n", d.Category, d.Title, d.Status)
		if d.From != nil {
			fmt.Printf("  From: %s\n", d.From.In(melbourne).Format("Mon 2 Jan 3:04 PM"))
		}
		for _, r := range d.Routes {
			fmt.Printf("  Route: %s (%d)\n", r.Name, r.RouteID)
		}
	}
	return nil
}

func routeTypes(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := client.GetRouteTypes(c.Context)
	if err != nil {
		return err
	}
	for _, rt := range result {
		fmt.Printf("- %s (%d)\n", rt.Name, int(rt.RouteType))
	}
	return nil
}

// status queries every mode concurrently; each query is its own upstream request
func status(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	all := models.AllRouteTypes()
	counts := make([]int, len(all))

	g, ctx := errgroup.WithContext(c.Context)
	for i, rt := range all {
		g.Go(func() error {
			ds, err := client.GetDisruptions(ctx, models.DisruptionFilter{
				RouteTypes: []models.RouteType{rt},
				Status:     models.DisruptionStatusCurrent,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", rt, err)
			}
			counts[i] = len(ds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("\nCurrent disruptions at %s:\n", time.Now().In(melbourne).Format("3:04 PM"))
	for i, rt := range all {
		fmt.Printf("  %-10s %d\n", rt, counts[i])
	}
	return nil
}
