// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Lisbon, Portugal":          "lisbon_portugal",
		"  São Paulo - Brazil  ":    "são_paulo_brazil",
		"Washington, D.C., USA":     "washington_d_c_usa",
		"Zürich":                    "zürich",
		"10 Downing St":             "10_downing_st",
		"!!!":                       "",
		"Manhattan,New York County": "manhattan_new_york_county",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slug(in))
		})
	}
}

func TestJob_WithDefaults(t *testing.T) {
	j := Job{Place: "Lisbon, Portugal"}.WithDefaults(Job{})
	assert.Equal(t, "lisbon_portugal", j.Name)
	assert.Equal(t, "amenities", j.Folder)
	assert.Equal(t, DefaultKey, j.Key)
	assert.Empty(t, j.Values)
	assert.Equal(t, "amenities/lisbon_portugal.geojson", j.ObjectKey())

	j = Job{Place: "Porto", Name: "porto-health", Values: []string{"hospital"}}.
		WithDefaults(Job{Folder: "health", Key: "healthcare", Values: []string{"clinic"}, Filter: "name"})
	assert.Equal(t, "porto-health", j.Name)
	assert.Equal(t, "health", j.Folder)
	assert.Equal(t, "healthcare", j.Key)
	assert.Equal(t, []string{"hospital"}, j.Values)
	assert.Equal(t, "name", j.Filter)
}

func TestJob_Validate(t *testing.T) {
	assert.ErrorIs(t, Job{}.Validate(), ErrNoPlace)
	assert.Error(t, Job{Place: "!!!"}.WithDefaults(Job{}).Validate())
	assert.NoError(t, Job{Place: "Lisbon"}.WithDefaults(Job{}).Validate())
}

func TestParseJobs(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		jobs, err := ParseJobs([]byte(`
- place: Lisbon, Portugal
  values: [school, hospital]
- place: Porto, Portugal
  name: porto
`))
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, "lisbon_portugal", jobs[0].Name)
		assert.Equal(t, []string{"school", "hospital"}, jobs[0].Values)
		assert.Equal(t, "porto", jobs[1].Name)
		assert.Equal(t, "amenities", jobs[1].Folder)
	})

	t.Run("defaults", func(t *testing.T) {
		jobs, err := ParseJobs([]byte(`
defaults:
  folder: leisure
  key: leisure
  values: [park]
jobs:
  - place: Lisbon, Portugal
  - place: Madrid, Spain
    values: [playground]
`))
		require.NoError(t, err)
		require.Len(t, jobs, 2)
		assert.Equal(t, "leisure/lisbon_portugal.geojson", jobs[0].ObjectKey())
		assert.Equal(t, []string{"park"}, jobs[0].Values)
		assert.Equal(t, []string{"playground"}, jobs[1].Values)
		assert.Equal(t, "leisure", jobs[1].Key)
	})

	t.Run("empty", func(t *testing.T) {
		jobs, err := ParseJobs(nil)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("missing place", func(t *testing.T) {
		_, err := ParseJobs([]byte("- name: nowhere\n"))
		assert.ErrorIs(t, err, ErrNoPlace)
		assert.ErrorContains(t, err, "job 1")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseJobs([]byte("jobs: [unclosed"))
		assert.Error(t, err)
	})
}

func TestLoadJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- place: Lisbon, Portugal\n"), 0o600))

	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	_, err = LoadJobs(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
