// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws loads AWS SDK v2 configuration and builds S3 clients, including
// clients for S3-compatible stores reached through a custom endpoint.
package aws
