// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects GeoJSON features by their properties.
//
// Filters are key-operator-target expressions joined by a delimiter (default
// comma, override with OSMX_FILTER_DELIM). Operators:
//
//   - = : exact match, numeric when the property is a number
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - < : less than, numeric when both sides parse as numbers
//   - > : greater than, numeric when both sides parse as numbers
//   - @ : substring, or membership for arrays and objects
//   - / : regular expression
//
// Any operator may be negated with a leading '!'. A bare key keeps features
// where the property is present and non-empty.
//
// Examples:
//
//   - "cuisine=pizza"
//   - "name!^Escola"
//   - "capacity>100"
//   - "geometry.type=Polygon"
//
// Keys are looked up as property names first and then as gjson paths into
// the feature. Keys prefixed with underscore are pushed into the Overpass
// query by OverpassPredicates instead of being applied locally.
package filters
