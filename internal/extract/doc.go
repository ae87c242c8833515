// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package extract runs extraction jobs. A job names a place and the tag to
// collect; running it geocodes the place, queries Overpass, converts the
// elements to GeoJSON, applies filters and uploads the collection.
//
// Jobs run concurrently with a bounded worker count. A failing job never
// stops its siblings: every job yields a Result, and the error returned by
// Run joins the individual failures.
package extract
