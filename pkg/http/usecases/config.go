package usecases

import (
	"github.com/lintang-b-s/navigatorx-traffic/pkg/customizer"
	"github.com/spf13/viper"
)

// LoadRoutingConfig reads the routing settings from viper. util.SetDefaults must have run.
func LoadRoutingConfig() (RoutingConfig, error) {
	policy, err := customizer.ParsePenaltyPolicy(viper.GetString("weighting.policy"))
	if err != nil {
		return RoutingConfig{}, err
	}
	return RoutingConfig{
		DefaultPlace:   viper.GetString("place.default"),
		NetworkType:    viper.GetString("provider.network_type"),
		SearchRadius:   viper.GetFloat64("spatialindex.search_radius"),
		MaxRadius:      viper.GetFloat64("spatialindex.max_radius"),
		MaxCandidates:  viper.GetInt("routing.max_candidates"),
		GeocodeTimeout: viper.GetDuration("geocoder.timeout"),
		TrafficPenalty: viper.GetFloat64("weighting.traffic_penalty"),
		Policy:         policy,
		GeocodeWorkers: viper.GetInt("weighting.geocode_workers"),
	}, nil
}
