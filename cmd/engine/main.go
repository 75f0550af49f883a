package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/navigatorx-traffic/pkg/geocoder"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/http"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/logger"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/metrics"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/osmparser"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/smoothing"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/storage"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", false, "enable the API rate limiter (API_RATE_LIMIT requests per second)")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(); err != nil {
		logger.Fatal("read config", zap.Error(err))
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
		logger.Fatal("open record store", zap.Error(err))
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
		logger.Fatal("create geocoder", zap.Error(err))
	}

	provider := osmparser.NewProvider(viper.GetStringMapString("provider.places"), viper.GetDuration("provider.timeout"), logger,
		osmparser.WithRetain(viper.GetString("provider.retain")))

	smoother, err := smoothing.NewSmoother(viper.GetFloat64("smoothing.factor"), viper.GetInt("smoothing.multiplier"))
	if err != nil {
		logger.Fatal("create smoother", zap.Error(err))
	}

	routingConfig, err := usecases.LoadRoutingConfig()
	if err != nil {
		logger.Fatal("read routing config", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metric := metrics.NewMetric(reg)

	routingService := usecases.NewRoutingService(logger, nominatim, provider, store, smoother, metric, routingConfig)
	recordService := usecases.NewRecordService(logger, store)

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, *useRateLimit, routingService, recordService, metric, reg); err != nil {
		logger.Fatal("start api", zap.Error(err))
	}

	if err := api.Wait(); err != nil {
		logger.Error("Navigatorx Traffic Server failed", zap.Error(err))
	}
	logger.Info("Navigatorx Traffic Server Stopped")
}
