package main

import (
	"context"
	"encoding/json"
	"exypnos-finder/internal/adapters/geolocation"
	"exypnos-finder/internal/adapters/mapview"
	"exypnos-finder/internal/app"
	"exypnos-finder/internal/domain"
	"exypnos-finder/internal/services"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func nearestCmd() *cobra.Command {
	var (
		lat, lng, radius float64
		asJSON           bool
	)

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the charging station nearest to a position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var pos *domain.Coordinates
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				pos = &domain.Coordinates{Lat: lat, Lon: lng}
			}
			return runNearest(cmd.Context(), cmd.OutOrStdout(), pos, radius, asJSON)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the search origin")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude of the search origin")
	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "search radius in km (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the rendered map as JSON")
	return cmd
}

func costCmd() *cobra.Command {
	var vehicle, mileage, price string

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Compare annual EV running costs against petrol",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCost(cmd.OutOrStdout(), vehicle, mileage, price)
		},
	}

	cmd.Flags().StringVar(&vehicle, "vehicle", "", "vehicle class: small, medium or large (required)")
	cmd.Flags().StringVar(&mileage, "mileage", "", "annual mileage")
	cmd.Flags().StringVar(&price, "price", "", "electricity price in pence per kWh")
	return cmd
}

func factCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fact",
		Short: "Print a random EV fact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), services.NewFactPicker(nil).Pick())
			return err
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := app.Bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cmd.Flags().Changed("port") {
				cfg.Port = strconv.Itoa(port)
			}

			srv, err := app.NewServer(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Serve(ctx, srv, logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port (overrides PORT)")
	return cmd
}

func runNearest(ctx context.Context, out io.Writer, pos *domain.Coordinates, radius float64, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := app.Bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dir, err := app.NewDirectory(cfg)
	if err != nil {
		return err
	}

	canvas := mapview.NewCanvas(app.DefaultCenter(cfg), cfg.Map.DefaultZoom)
	session := services.NewMapSession(canvas, dir, app.SessionOptions(cfg))

	res, err := session.FindNearest(ctx, geolocation.FromOptional(pos), radius)
	if err != nil {
		logger.Debug("nearest lookup failed", zap.Error(err))
		return fmt.Errorf("%s", services.NoticeFor(err).Message)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(canvas.Snapshot())
	}

	return printStations(out, res)
}

func printStations(out io.Writer, res services.LookupResult) error {
	n := res.Nearest.Station
	fmt.Fprintf(out, "Nearest: %s (%s km)\n", n.Title, services.FormatDistance(res.Nearest.DistanceKm))
	fmt.Fprintf(out, "  %s\n  Status: %s\n  Connectors: %s\n\n", n.AddressLine, n.StatusLabel(), n.ConnectorLabel())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KM\tSTATION\tSTATUS\tCONNECTORS")
	for _, rs := range res.Stations {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			services.FormatDistance(rs.DistanceKm), rs.Station.Title, rs.Station.StatusLabel(), rs.Station.ConnectorLabel())
	}
	return tw.Flush()
}

func runCost(out io.Writer, vehicle, mileage, price string) error {
	in, err := services.ParseCostInput(vehicle, mileage, price)
	if err != nil {
		return fmt.Errorf("%s: %w", services.NoticeFor(err).Message, err)
	}

	f := services.CalculateCosts(in.Class, in.AnnualMileage, in.ElectricityPence).Formatted()

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Vehicle\t%s\n", in.Class)
	fmt.Fprintf(tw, "Energy used\t%s kWh\n", f.TotalKwh)
	fmt.Fprintf(tw, "EV annual cost\t£%s\n", f.EVAnnualCost)
	fmt.Fprintf(tw, "Petrol annual cost\t£%s\n", f.PetrolAnnualCost)
	fmt.Fprintf(tw, "Annual savings\t£%s\n", f.AnnualSavings)
	fmt.Fprintf(tw, "CO2 saved\t%s kg\n", f.CO2Savings)
	return tw.Flush()
}
