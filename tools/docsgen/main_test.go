// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestGenerate(t *testing.T) {
	docs := t.TempDir()
	writeFile(t, filepath.Join(docs, "templates", "osmx.yaml"), `
common:
  flags:
    - id: output
      syntax: --output
subcommands:
  - id: ls
    short: List objects.
    common: true
    flags:
      - id: sizes
        syntax: --sizes
    examples:
      - command: osmx ls amenities/
        description: List collections
  - id: check
    short: Verify access.
`)
	writeFile(t, filepath.Join(docs, "templates", "osmx.md.tmpl"),
		"{{ .ID }} {{ .Version }} {{ .Date }}{{ range .Flags }} {{ .ID }}{{ end }}")
	writeFile(t, filepath.Join(docs, "templates", "osmx.tldr.tmpl"),
		"{{ .Short }}{{ range .Examples }} {{ .Command }}{{ end }}")

	var out bytes.Buffer
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, generate(&out, docs, "1.2.0", now))
	assert.Contains(t, out.String(), filepath.Join(docs, "tldr", "osmx-ls.md"))

	tests := []struct {
		path string
		want string
	}{
		{filepath.Join("commands", "ls.md"), "ls 1.2.0 March 1, 2026 output sizes"},
		{filepath.Join("commands", "check.md"), "check 1.2.0 March 1, 2026"},
		{filepath.Join("tldr", "osmx-ls.md"), "List objects. osmx ls amenities/"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			body, err := os.ReadFile(filepath.Join(docs, tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestGenerate_MissingConfig(t *testing.T) {
	err := generate(&bytes.Buffer{}, t.TempDir(), "dev", time.Now())
	assert.Error(t, err)
}
