// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package progress shows extraction progress. On a terminal each job gets a
// live status line driven by a Bubble Tea program; elsewhere events go to the
// log.
package progress
