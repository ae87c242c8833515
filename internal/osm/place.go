// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package osm

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/tidwall/gjson"
)

// ErrPlaceNotFound is returned when the geocoder has no result for a query.
var ErrPlaceNotFound = errors.New("place not found")

// Overpass derives area ids from the OSM id of the outline.
const (
	relationAreaOffset int64 = 3600000000
	wayAreaOffset      int64 = 2400000000
)

// Place is a geocoded OSM object.
type Place struct {
	Query       string    `json:"query"`
	OSMType     string    `json:"osm_type"`
	OSMID       int64     `json:"osm_id"`
	DisplayName string    `json:"display_name"`
	Class       string    `json:"class"`
	Type        string    `json:"type"`
	Center      orb.Point `json:"center"`
	Bound       orb.Bound `json:"bound"`
}

// AreaID returns the Overpass area id for p. Nodes have no area.
func (p *Place) AreaID() (int64, bool) {
	switch p.OSMType {
	case TypeRelation:
		return relationAreaOffset + p.OSMID, true
	case TypeWay:
		return wayAreaOffset + p.OSMID, true
	default:
		return 0, false
	}
}

func (p *Place) String() string {
	return fmt.Sprintf("%s/%d (%s)", p.OSMType, p.OSMID, p.DisplayName)
}

// parsePlaces decodes a Nominatim `format=json` search response. The
// boundingbox array is [south, north, west, east] as strings.
func parsePlaces(query string, body []byte) ([]*Place, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid geocoder response for %q", query)
	}
	results := gjson.ParseBytes(body)
	if !results.IsArray() {
		return nil, fmt.Errorf("unexpected geocoder response for %q: %s", query, truncate(results.Raw, 200))
	}

	var places []*Place
	for _, r := range results.Array() {
		bb := r.Get("boundingbox").Array()
		p := &Place{
			Query:       query,
			OSMType:     r.Get("osm_type").String(),
			OSMID:       r.Get("osm_id").Int(),
			DisplayName: r.Get("display_name").String(),
			Class:       r.Get("class").String(),
			Type:        r.Get("type").String(),
			Center:      orb.Point{r.Get("lon").Float(), r.Get("lat").Float()},
		}
		if len(bb) == 4 {
			p.Bound = orb.Bound{
				Min: orb.Point{bb[2].Float(), bb[0].Float()},
				Max: orb.Point{bb[3].Float(), bb[1].Float()},
			}
		} else {
			p.Bound = p.Center.Bound()
		}
		places = append(places, p)
	}
	return places, nil
}

// pickPlace prefers the first result with an outline, like osmnx's
// which_result=None.
func pickPlace(places []*Place) *Place {
	for _, p := range places {
		if _, ok := p.AreaID(); ok {
			return p
		}
	}
	if len(places) > 0 {
		return places[0]
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
