// Command dwdweather answers weather queries for Germany from a local
// cache of the DWD climate archive.
//
// Usage:
//
//	dwdweather stations [--resolution R] [--type csv|geojson|plain] [--file PATH] [--reset-cache]
//	dwdweather station LON LAT [--resolution R] [--buffer METERS]
//	dwdweather weather STATION_ID TIMESTAMP [--resolution R] [--categories C1,C2] [--reset-cache]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"dwdweather/internal/cdc"
	"dwdweather/internal/climate"
	"dwdweather/internal/config"
	"dwdweather/internal/directory"
	"dwdweather/internal/logging"
	"dwdweather/internal/render"
	"dwdweather/internal/resolver"
	"dwdweather/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "stations":
		err = runStations(ctx, os.Args[2:])
	case "station":
		err = runStation(ctx, os.Args[2:])
	case "weather":
		err = runWeather(ctx, os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: dwdweather <command> [options]

commands:
  stations   List or export the station directory
  station    Find the station(s) nearest to a coordinate
  weather    Get measurements for a station and timestamp
`)
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	resolution string
	cachePath  string
	resetCache bool
	debug      bool
}

func addCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.resolution, "resolution", string(climate.ResolutionHourly), "dataset resolution (10_minutes, hourly, daily)")
	fs.StringVar(&cf.cachePath, "cache-path", "", "cache directory (default ~/.dwd-weather)")
	fs.BoolVar(&cf.resetCache, "reset-cache", false, "drop the cache database before doing anything")
	fs.BoolVar(&cf.debug, "debug", false, "verbose logging")
}

// app wires the components for one command invocation.
type app struct {
	cfg       config.Config
	log       *slog.Logger
	store     *store.Store
	archive   *cdc.Archive
	directory *directory.Directory
	resolver  *resolver.Resolver
}

func newApp(cf commonFlags) (*app, climate.Resolution, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, "", err
	}
	if cf.cachePath != "" {
		cfg.CachePath = cf.cachePath
	}
	if cf.debug {
		cfg.LogLevel = slog.LevelDebug
	}

	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat == "text")
	slog.SetDefault(log)

	res, err := climate.ParseResolution(cf.resolution)
	if err != nil {
		return nil, "", err
	}

	st, err := store.Open(cfg.DatabaseFile(), store.Options{
		MaxOpenConns:    cfg.SQLiteMaxOpenConns,
		MaxIdleConns:    cfg.SQLiteMaxIdleConns,
		ConnMaxLifetime: cfg.SQLiteConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, "", err
	}

	if cf.resetCache {
		if err := st.Reset(); err != nil {
			_ = st.Close()
			return nil, "", err
		}
	}

	clientCfg := cdc.DefaultClientConfig()
	clientCfg.Timeout = cfg.HTTPTimeout
	client := cdc.NewClient(clientCfg, log)
	archive := cdc.NewArchive(client, cfg.BaseURL, log)
	dir := directory.New(st, archive, log)
	res2 := resolver.New(st, archive, log)

	return &app{
		cfg:       cfg,
		log:       log,
		store:     st,
		archive:   archive,
		directory: dir,
		resolver:  res2,
	}, res, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("store close", "error", err)
	}
}

func runStations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stations", flag.ExitOnError)
	var cf commonFlags
	addCommonFlags(fs, &cf)
	outType := fs.String("type", "plain", "export format (csv, geojson, plain)")
	outFile := fs.String("file", "", "export file path (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, res, err := newApp(cf)
	if err != nil {
		return err
	}
	defer a.close()

	stations, err := a.directory.Stations(ctx, res)
	if err != nil {
		return err
	}

	out := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch *outType {
	case "csv":
		return render.StationsCSV(out, stations, ',')
	case "geojson":
		return render.StationsGeoJSON(out, stations)
	case "plain":
		return render.StationsCSV(out, stations, '\t')
	default:
		return fmt.Errorf("unknown export type %q (allowed: csv, geojson, plain)", *outType)
	}
}

func runStation(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("station", flag.ExitOnError)
	var cf commonFlags
	addCommonFlags(fs, &cf)
	buffer := fs.Float64("buffer", 0, "include all stations within this radius in meters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("station requires LON and LAT arguments")
	}
	lon, err := parseCoordinate(fs.Arg(0), -180, 180, "longitude")
	if err != nil {
		return err
	}
	lat, err := parseCoordinate(fs.Arg(1), -90, 90, "latitude")
	if err != nil {
		return err
	}

	a, res, err := newApp(cf)
	if err != nil {
		return err
	}
	defer a.close()

	neighbors, err := a.directory.NearestStation(ctx, res, lon, lat, *buffer)
	if err != nil {
		return err
	}
	return render.NeighborsJSON(os.Stdout, neighbors)
}

func runWeather(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("weather", flag.ExitOnError)
	var cf commonFlags
	addCommonFlags(fs, &cf)
	categoriesFlag := fs.String("categories", "", "comma-separated categories (default: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("weather requires STATION_ID and TIMESTAMP arguments")
	}
	stationID, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("station id %q: %w", fs.Arg(0), err)
	}

	a, res, err := newApp(cf)
	if err != nil {
		return err
	}
	defer a.close()

	ts, err := climate.ParseTimestamp(res, fs.Arg(1))
	if err != nil {
		return err
	}

	var categories []climate.Category
	if *categoriesFlag != "" {
		for _, name := range strings.Split(*categoriesFlag, ",") {
			cat, err := climate.ParseCategory(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			categories = append(categories, cat)
		}
	}

	a.log.Info("querying measurements",
		"station", stationID, "resolution", res, "timestamp", ts)

	result, err := a.resolver.Query(ctx, stationID, res, ts, categories)
	if err != nil {
		return err
	}
	for cat, catErr := range result.Failed {
		a.log.Warn("category failed", "category", cat, "error", catErr)
	}
	for _, cat := range result.Unavailable {
		a.log.Warn("category unavailable", "category", cat)
	}
	return render.RecordJSON(os.Stdout, result.Record)
}

func parseCoordinate(s string, min, max float64, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, s, err)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s %v not in range [%v, %v]", name, v, min, max)
	}
	return v, nil
}
