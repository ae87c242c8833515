// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other osmx packages to avoid import cycles.

package version

import "runtime/debug"

var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}()

// UserAgent identifies osmx to Nominatim and Overpass. Both services reject
// anonymous or library-default agents under their usage policies.
func UserAgent() string {
	return "osmx/" + Version + " (+https://github.com/osmx/osmx)"
}
