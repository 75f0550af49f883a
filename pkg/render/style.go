package render

import "github.com/lintang-b-s/navigatorx-traffic/pkg"

type Style struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
	Tooltip string  `json:"tooltip"`
}

func StyleFor(kind pkg.RouteKind) Style {
	switch kind {
	case pkg.OPTIMAL_ROUTE:
		return Style{Color: "blue", Weight: 5, Opacity: 0.8, Tooltip: "Optimal route"}
	case pkg.SHORTEST_ROUTE:
		return Style{Color: "green", Weight: 3, Opacity: 0.6, Tooltip: "Shortest route"}
	default:
		return Style{Color: "orange", Weight: 4, Opacity: 0.7, Tooltip: "Alternative route"}
	}
}
