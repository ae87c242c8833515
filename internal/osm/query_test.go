// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package osm

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	relation := &Place{OSMType: TypeRelation, OSMID: 5400890}
	node := &Place{
		OSMType: TypeNode,
		OSMID:   25439525,
		Bound:   orb.Bound{Min: orb.Point{-9.2965, 38.5477}, Max: orb.Point{-8.9765, 38.8677}},
	}

	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			name: "area with values",
			q:    Query{Place: relation, Key: "amenity", Values: []string{"school", "hospital", " school ", ""}},
			want: `[out:json][timeout:180];
area(id:3605400890)->.searchArea;
(
  nwr["amenity"="school"](area.searchArea);
  nwr["amenity"="hospital"](area.searchArea);
);
out tags geom;
`,
		},
		{
			name: "area any value",
			q:    Query{Place: &Place{OSMType: TypeWay, OSMID: 42}, Key: "leisure", Timeout: 60 * time.Second},
			want: `[out:json][timeout:60];
area(id:2400000042)->.searchArea;
(
  nwr["leisure"](area.searchArea);
);
out tags geom;
`,
		},
		{
			name: "bbox fallback",
			q:    Query{Place: node, Key: "amenity", Values: []string{"cafe"}},
			want: `[out:json][timeout:180];
(
  nwr["amenity"="cafe"](38.5477,-9.2965,38.8677,-8.9765);
);
out tags geom;
`,
		},
		{
			name: "extra predicates",
			q:    Query{Place: relation, Key: "amenity", Values: []string{"cafe"}, Where: []string{`["wheelchair"="yes"]`, `["name"]`}},
			want: `[out:json][timeout:180];
area(id:3605400890)->.searchArea;
(
  nwr["amenity"="cafe"]["wheelchair"="yes"]["name"](area.searchArea);
);
out tags geom;
`,
		},
		{
			name: "quoting",
			q:    Query{Place: relation, Key: `name`, Values: []string{`Joe's "Bar"\`}},
			want: `[out:json][timeout:180];
area(id:3605400890)->.searchArea;
(
  nwr["name"="Joe's \"Bar\"\\"](area.searchArea);
);
out tags geom;
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildQuery(tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildQuery_Errors(t *testing.T) {
	_, err := BuildQuery(Query{Key: "amenity"})
	assert.ErrorIs(t, err, ErrNoPlace)

	_, err = BuildQuery(Query{Place: &Place{OSMType: TypeRelation, OSMID: 1}, Key: "  "})
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestPlace_AreaID(t *testing.T) {
	tests := []struct {
		osmType string
		id      int64
		want    int64
		ok      bool
	}{
		{TypeRelation, 5400890, 3605400890, true},
		{TypeWay, 123, 2400000123, true},
		{TypeNode, 25439525, 0, false},
		{"", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.osmType, func(t *testing.T) {
			got, ok := (&Place{OSMType: tt.osmType, OSMID: tt.id}).AreaID()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePlaces_NoBoundingBox(t *testing.T) {
	places, err := parsePlaces("x", []byte(`[{"osm_type":"node","osm_id":7,"lat":"1.5","lon":"2.5"}]`))
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, orb.Point{2.5, 1.5}, places[0].Center)
	assert.Equal(t, orb.Bound{Min: orb.Point{2.5, 1.5}, Max: orb.Point{2.5, 1.5}}, places[0].Bound)

	assert.Nil(t, pickPlace(nil))
	assert.Equal(t, places[0], pickPlace(places))
}
