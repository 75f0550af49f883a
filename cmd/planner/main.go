package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/customizer"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geocoder"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/logger"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/osmparser"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/render"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/smoothing"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/storage"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	startAddress = flag.String("start", "", "start address")
	endAddress   = flag.String("end", "", "end address")
	place        = flag.String("place", "", "place whose road network is used (default place.default)")
	out          = flag.String("out", "route_map.geojson", "output GeoJSON map file")
)

func main() {
	flag.Parse()
	if *startAddress == "" || *endAddress == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	if err := util.ReadConfig(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Config{
		Driver:      viper.GetString("storage.driver"),
		PebbleDir:   viper.GetString("storage.pebble_dir"),
		PostgresDSN: viper.GetString("storage.postgres_dsn"),

		TrafficTable:  viper.GetString("storage.postgres_traffic_table"),
		IncidentTable: viper.GetString("storage.postgres_incident_table"),
	})
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer store.Close()

	nominatim, err := geocoder.NewNominatim(geocoder.Config{
		BaseURL:       viper.GetString("geocoder.base_url"),
		UserAgent:     viper.GetString("geocoder.user_agent"),
		Timeout:       viper.GetDuration("geocoder.timeout"),
		RatePerSecond: viper.GetFloat64("geocoder.rate_per_second"),
		CacheSize:     viper.GetInt("geocoder.cache_size"),
	}, logger)
	if err != nil {
		return err
	}

	provider := osmparser.NewProvider(viper.GetStringMapString("provider.places"), viper.GetDuration("provider.timeout"), logger,
		osmparser.WithRetain(viper.GetString("provider.retain")))

	smoother, err := smoothing.NewSmoother(viper.GetFloat64("smoothing.factor"), viper.GetInt("smoothing.multiplier"))
	if err != nil {
		return err
	}

	routingConfig, err := usecases.LoadRoutingConfig()
	if err != nil {
		return err
	}

	routingService := usecases.NewRoutingService(logger, nominatim, provider, store, smoother, nil, routingConfig)

	doc, report, err := routingService.ComputeRoutes(ctx, *startAddress, *endAddress, *place)
	if report != nil {
		fmt.Printf("weighting: %d applied, %d skipped\n", report.Count(customizer.APPLIED),
			len(report.Results)-report.Count(customizer.APPLIED))
	}
	if err != nil {
		var uerr *util.Error
		if errors.As(err, &uerr) {
			fmt.Println(uerr.Message())
		} else {
			fmt.Println(pkg.STATUS_ROUTE_ERROR)
		}
		return err
	}

	if err := render.WriteGeoJSONFile(*out, doc); err != nil {
		return err
	}
	for _, r := range doc.Routes {
		fmt.Printf("%-11s cost %10.1f  length %10.1f m\n", r.Kind, r.Cost, r.Length)
	}
	fmt.Println(doc.Status)
	fmt.Printf("map written to %s\n", *out)
	return nil
}
