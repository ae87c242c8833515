// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller navigates GeoJSON documents with bracketed dot paths for
// the inspect console.
package driller
