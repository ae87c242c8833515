// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package osm

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(f float64) *float64 { return &f }

func square(closed bool) []*LatLon {
	g := []*LatLon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 0}}
	if closed {
		g = append(g, &LatLon{Lat: 0, Lon: 0})
	}
	return g
}

func TestToFeatureCollection(t *testing.T) {
	elements := []Element{
		{Type: TypeNode, ID: 1, Lat: fp(38.7), Lon: fp(-9.1), Tags: map[string]string{"amenity": "cafe", "name": "A"}},
		{Type: TypeWay, ID: 2, Geometry: square(true), Tags: map[string]string{"amenity": "school"}},
		{Type: TypeWay, ID: 3, Geometry: square(true), Tags: map[string]string{"highway": "footway"}},
		{Type: TypeWay, ID: 4, Geometry: square(true), Tags: map[string]string{"highway": "pedestrian", "area": "yes"}},
		{Type: TypeWay, ID: 5, Geometry: square(true), Tags: map[string]string{"amenity": "parking", "area": "no"}},
		{Type: TypeWay, ID: 6, Geometry: square(false), Tags: map[string]string{"amenity": "school"}},
		{Type: TypeRelation, ID: 7, Bounds: &Bounds{MinLat: 0, MinLon: 0, MaxLat: 2, MaxLon: 4}, Tags: map[string]string{"amenity": "university"}},
		{Type: TypeNode, ID: 8},
		{Type: TypeWay, ID: 9, Geometry: []*LatLon{{Lat: 1, Lon: 1}, nil}},
		{Type: TypeRelation, ID: 10},
		{Type: "area", ID: 11},
	}

	fc := ToFeatureCollection(elements)
	require.Len(t, fc.Features, 7)

	byID := map[string]orb.Geometry{}
	for _, f := range fc.Features {
		byID[f.ID.(string)] = f.Geometry
	}

	assert.Equal(t, orb.Point{-9.1, 38.7}, byID["node/1"])
	assert.IsType(t, orb.Polygon{}, byID["way/2"])
	assert.IsType(t, orb.LineString{}, byID["way/3"])
	assert.IsType(t, orb.Polygon{}, byID["way/4"])
	assert.IsType(t, orb.LineString{}, byID["way/5"])
	assert.IsType(t, orb.LineString{}, byID["way/6"])
	assert.Equal(t, orb.Point{2, 1}, byID["relation/7"])

	first := fc.Features[0]
	assert.Equal(t, "cafe", first.Properties["amenity"])
	assert.Equal(t, "A", first.Properties["name"])
	assert.Equal(t, TypeNode, first.Properties[PropElementType])
	assert.Equal(t, int64(1), first.Properties[PropOSMID])
}

func TestToFeatureCollection_Empty(t *testing.T) {
	fc := ToFeatureCollection(nil)
	require.NotNil(t, fc)
	assert.Empty(t, fc.Features)

	b, err := fc.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(b))
}

func TestIsArea_Coastline(t *testing.T) {
	line := orb.LineString{{0, 0}, {0, 1}, {1, 1}, {0, 0}}
	assert.False(t, isArea(line, map[string]string{"natural": "coastline", "place": "island"}))
	assert.True(t, isArea(line, map[string]string{"natural": "wood"}))
	assert.False(t, isArea(line[:3], map[string]string{"building": "yes"}))
}
