package render

import (
	"fmt"
	"io"
	"os"

	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RouteLayer one drawable route: its smoothed curve and display style.
type RouteLayer struct {
	Kind   pkg.RouteKind
	Curve  []geo.Coordinate
	Style  Style
	Cost   float64
	Length float64
}

func NewRouteLayer(kind pkg.RouteKind, curve []geo.Coordinate, cost, length float64) RouteLayer {
	return RouteLayer{Kind: kind, Curve: curve, Style: StyleFor(kind), Cost: cost, Length: length}
}

// MapDocument everything shown for one route query.
type MapDocument struct {
	Start  geo.Coordinate
	End    geo.Coordinate
	Routes []RouteLayer
	Status string
}

func toLineString(curve []geo.Coordinate) orb.LineString {
	ls := make(orb.LineString, 0, len(curve))
	for _, c := range curve {
		ls = append(ls, orb.Point{c.GetLon(), c.GetLat()})
	}
	return ls
}

func pointFeature(c geo.Coordinate, title, color string) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{c.GetLon(), c.GetLat()})
	f.Properties["title"] = title
	f.Properties["marker-color"] = color
	return f
}

// FeatureCollection converts doc to GeoJSON with simplestyle properties. A route with a single coordinate
// is emitted as a point.
func FeatureCollection(doc MapDocument) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range doc.Routes {
		var f *geojson.Feature
		if len(r.Curve) == 1 {
			f = geojson.NewFeature(orb.Point{r.Curve[0].GetLon(), r.Curve[0].GetLat()})
		} else {
			f = geojson.NewFeature(toLineString(r.Curve))
		}
		f.Properties["route"] = r.Kind.String()
		f.Properties["stroke"] = r.Style.Color
		f.Properties["stroke-width"] = r.Style.Weight
		f.Properties["stroke-opacity"] = r.Style.Opacity
		f.Properties["title"] = r.Style.Tooltip
		f.Properties["cost"] = r.Cost
		f.Properties["length"] = r.Length
		fc.Append(f)
	}
	fc.Append(pointFeature(doc.Start, "Start", "#2e7d32"))
	fc.Append(pointFeature(doc.End, "End", "#c62828"))
	fc.ExtraMembers = geojson.Properties{"status": doc.Status}
	return fc
}

func WriteGeoJSON(w io.Writer, doc MapDocument) error {
	data, err := FeatureCollection(doc).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func WriteGeoJSONFile(path string, doc MapDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map file: %w", err)
	}
	if err := WriteGeoJSON(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
