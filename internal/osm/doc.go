// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package osm talks to the OpenStreetMap services used for extraction.
//
// Nominatim resolves a free-form place name to an OSM object and its bounding
// box. Overpass is then queried for every element carrying the requested tag
// inside that object's area (or the bounding box when the object has no
// area), and the elements are converted to a GeoJSON FeatureCollection.
//
// Requests are rate limited, retried with exponential backoff on transient
// statuses, and optionally served from an on-disk cache.
package osm
