// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output sorts and renders tabular results as text tables, json,
// yaml or tab separated raw rows.
package output
