package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/spf13/viper"
)

// ReadConfig reads ./data/config.yaml. A missing config file is not an error, defaults and
// environment variables are used instead.
func ReadConfig() error {
	SetDefaults()

	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func SetDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "120s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")
	viper.SetDefault("API_RATE_LIMIT", 10)
	viper.SetDefault("API_RATE_LIMIT_BURST", 20)

	viper.SetDefault("place.default", pkg.DEFAULT_PLACE)
	viper.SetDefault("provider.network_type", pkg.DEFAULT_NETWORK_TYPE)
	viper.SetDefault("provider.places", map[string]string{
		pkg.DEFAULT_PLACE: "./data/krasnodar.osm.pbf",
	})
	viper.SetDefault("provider.timeout", "60s")
	viper.SetDefault("provider.retain", "weak")

	viper.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocoder.user_agent", "route_planner")
	viper.SetDefault("geocoder.timeout", "10s")
	viper.SetDefault("geocoder.rate_per_second", 1.0)
	viper.SetDefault("geocoder.cache_size", 1024)

	viper.SetDefault("weighting.traffic_penalty", pkg.TRAFFIC_PENALTY_METER)
	viper.SetDefault("weighting.policy", "additive")
	viper.SetDefault("weighting.geocode_workers", 1)

	viper.SetDefault("routing.max_candidates", pkg.DEFAULT_MAX_ALTERNATIVE_CANDIDATES)

	viper.SetDefault("smoothing.factor", pkg.DEFAULT_SMOOTHING_FACTOR)
	viper.SetDefault("smoothing.multiplier", pkg.DEFAULT_SMOOTHING_MULTIPLIER)

	viper.SetDefault("storage.driver", "pebble")
	viper.SetDefault("storage.pebble_dir", "./data/records")
	viper.SetDefault("storage.postgres_dsn", "postgres://localhost:5432/traffic")
	viper.SetDefault("storage.postgres_traffic_table", "rout1")
	viper.SetDefault("storage.postgres_incident_table", "traffic_incidents")

	viper.SetDefault("spatialindex.search_radius", 0.05)
	viper.SetDefault("spatialindex.max_radius", 5.0)
}
