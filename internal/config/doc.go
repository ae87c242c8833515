// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for osmx's user
// configuration and the .env file holding AWS credentials and the target
// bucket. The YAML configuration is expected in the user's configuration
// directory, typically:
//   - Linux: $XDG_CONFIG_HOME/osmx.yaml or $HOME/.config/osmx.yaml
//   - macOS: $HOME/Library/Application Support/osmx.yaml
//   - Windows: %APPDATA%/osmx.yaml
//
// Actual resolution relies on os.UserConfigDir which follows platform
// conventions. OSMX_CFG_FILE overrides it.
package config
