package osmparser

import "github.com/paulmach/osm"

var (
	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing/Telenav
	acceptedHighway = map[string]struct{}{
		"motorway":         {},
		"motorway_link":    {},
		"trunk":            {},
		"trunk_link":       {},
		"primary":          {},
		"primary_link":     {},
		"secondary":        {},
		"secondary_link":   {},
		"residential":      {},
		"residential_link": {},
		"service":          {},
		"tertiary":         {},
		"tertiary_link":    {},
		"road":             {},
		"track":            {},
		"unclassified":     {},
		"undefined":        {},
		"unknown":          {},
		"living_street":    {},
		"private":          {},
		"motorroad":        {},
	}

	// ways tagged with one of these are never drivable.
	rejectedService = map[string]struct{}{
		"parking_aisle":    {},
		"emergency_access": {},
	}
)

const (
	NETWORK_DRIVE = "drive"
	NETWORK_ALL   = "all"
)

func acceptOsmWay(way *osm.Way, networkType string) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")

	if networkType == NETWORK_ALL {
		return highway != "" || junction != ""
	}

	if isRestricted(way.Tags.Find("motor_vehicle")) || way.Tags.Find("access") == "no" {
		return false
	}
	if _, ok := rejectedService[way.Tags.Find("service")]; ok {
		return false
	}
	if highway != "" {
		_, ok := acceptedHighway[highway]
		return ok
	}
	return junction != ""
}

func isRestricted(value string) bool {
	return value == "no" || value == "restricted"
}

// wayDirection returns whether the way can be driven along (forward) and against (backward) its node order.
func wayDirection(way *osm.Way) (forward, backward bool) {
	forward, backward = true, true

	switch way.Tags.Find("oneway") {
	case "yes", "true", "1":
		backward = false
	case "-1", "reverse":
		forward = false
	case "no", "false", "0":
	default:
		junction := way.Tags.Find("junction")
		if junction == "roundabout" || junction == "circular" || way.Tags.Find("highway") == "motorway" {
			backward = false
		}
	}

	if isRestricted(way.Tags.Find("vehicle:forward")) || isRestricted(way.Tags.Find("motor_vehicle:forward")) {
		forward = false
	}
	if isRestricted(way.Tags.Find("vehicle:backward")) || isRestricted(way.Tags.Find("motor_vehicle:backward")) {
		backward = false
	}
	return forward, backward
}
