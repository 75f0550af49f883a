package pkg

const (
	INF_WEIGHT float64 = 1e15

	// penalty added to a road segment that appears in a traffic record, in meters
	TRAFFIC_PENALTY_METER = 10.0

	DEFAULT_SMOOTHING_FACTOR     = 0.01
	DEFAULT_SMOOTHING_MULTIPLIER = 10

	// upper bound of candidate paths kept by the k-shortest simple path search
	DEFAULT_MAX_ALTERNATIVE_CANDIDATES = 64

	DEFAULT_PLACE        = "Krasnodar, Russia"
	DEFAULT_NETWORK_TYPE = "drive"
)

type RouteKind uint8

const (
	OPTIMAL_ROUTE RouteKind = iota
	SHORTEST_ROUTE
	ALTERNATIVE_ROUTE
)

func (k RouteKind) String() string {
	switch k {
	case OPTIMAL_ROUTE:
		return "optimal"
	case SHORTEST_ROUTE:
		return "shortest"
	case ALTERNATIVE_ROUTE:
		return "alternative"
	default:
		return "unknown"
	}
}

const (
	STATUS_ROUTE_FOUND       = "Route found and displayed!"
	STATUS_NO_ROUTE          = "No route available."
	STATUS_ADDRESS_NOT_FOUND = "Route not found: address could not be resolved."
	STATUS_ROUTE_ERROR       = "Error while searching for route."
)
