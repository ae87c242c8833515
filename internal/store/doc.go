// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package store reads and writes extraction artifacts (GeoJSON feature
// collections, xlsx workbooks, arbitrary files) in a single S3 bucket. Keys
// follow the folder/name.ext layout, with "amenities" as the default folder.
package store
