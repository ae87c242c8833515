// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package osm

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/osmx/osmx/internal/log"
)

// Property names added to every feature alongside the element's tags.
const (
	PropElementType = "element_type"
	PropOSMID       = "osmid"
)

// areaKeys are tags that make a closed way a polygon rather than a ring-shaped
// line.
var areaKeys = map[string]bool{
	"aeroway":          true,
	"amenity":          true,
	"boundary":         true,
	"building":         true,
	"building:part":    true,
	"craft":            true,
	"healthcare":       true,
	"historic":         true,
	"landuse":          true,
	"leisure":          true,
	"man_made":         true,
	"military":         true,
	"natural":          true,
	"office":           true,
	"place":            true,
	"public_transport": true,
	"shop":             true,
	"sport":            true,
	"tourism":          true,
}

// ToFeatureCollection converts Overpass elements to GeoJSON. Elements with no
// usable geometry are skipped.
func ToFeatureCollection(elements []Element) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	skipped := 0
	for _, e := range elements {
		g := geometryOf(e)
		if g == nil {
			skipped++
			continue
		}

		f := geojson.NewFeature(g)
		f.ID = FeatureID(e.Type, e.ID)
		for k, v := range e.Tags {
			f.Properties[k] = v
		}
		f.Properties[PropElementType] = e.Type
		f.Properties[PropOSMID] = e.ID
		fc.Append(f)
	}
	if skipped > 0 {
		log.Debugf("skipped %d elements without geometry", skipped)
	}
	return fc
}

// FeatureID is the stable identifier of an element, e.g. "way/123".
func FeatureID(elementType string, id int64) string {
	return elementType + "/" + strconv.FormatInt(id, 10)
}

func geometryOf(e Element) orb.Geometry {
	switch e.Type {
	case TypeNode:
		if e.Lat == nil || e.Lon == nil {
			return nil
		}
		return orb.Point{*e.Lon, *e.Lat}

	case TypeWay:
		line := make(orb.LineString, 0, len(e.Geometry))
		for _, ll := range e.Geometry {
			if ll != nil {
				line = append(line, ll.Point())
			}
		}
		if len(line) < 2 {
			return nil
		}
		if isArea(line, e.Tags) {
			return orb.Polygon{orb.Ring(line)}
		}
		return line

	case TypeRelation:
		if e.Bounds == nil {
			return nil
		}
		return e.Bounds.Bound().Center()
	}
	return nil
}

func isArea(line orb.LineString, tags map[string]string) bool {
	if len(line) < 4 || !line[0].Equal(line[len(line)-1]) {
		return false
	}
	switch tags["area"] {
	case "yes":
		return true
	case "no":
		return false
	}
	if tags["natural"] == "coastline" {
		return false
	}
	for k := range tags {
		if areaKeys[k] {
			return true
		}
	}
	return false
}
