// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ compares two GeoJSON FeatureCollections feature by feature
// and renders the result with gojsondiff. It also provides a small picker for
// choosing two stored collections interactively.
package differ
