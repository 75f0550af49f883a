package routing

import (
	"github.com/lintang-b-s/navigatorx-traffic/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
)

type CostFunction interface {
	GetWeight(e costfunction.EdgeAttributes) float64
	Name() string
}

type Router interface {
	ComputeRoutes(start, end datastructure.Index) (*RouteSet, error)
}
