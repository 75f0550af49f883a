package http

import (
	"context"

	http_router "github.com/lintang-b-s/navigatorx-traffic/pkg/http/router"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/navigatorx-traffic/pkg/http/server"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use starts the API in the background. It stops when ctx is canceled; Wait returns its error.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	routingService controllers.RoutingService,
	recordService controllers.RecordService,
	metric *metrics.Metric,
	gatherer prometheus.Gatherer,
) (*Server, error) {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "60s")

	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	server := http_router.NewAPI(log)

	s.g = &errgroup.Group{}

	s.g.Go(func() error {
		return server.Run(
			ctx, config, log,
			useRateLimit, routingService, recordService, metric, gatherer,
		)
	})

	return s, nil
}

func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}
