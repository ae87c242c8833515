// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/extract"
	"github.com/osmx/osmx/internal/osm"
)

type stubSource struct {
	elements []osm.Element
	queries  []osm.Query
}

func (s *stubSource) Geocode(_ context.Context, q string) (*osm.Place, error) {
	switch q {
	case "Lisbon, Portugal":
		return &osm.Place{Query: q, OSMType: osm.TypeRelation, OSMID: 5400890, DisplayName: "Lisboa, Portugal"}, nil
	case "Porto, Portugal":
		return &osm.Place{Query: q, OSMType: osm.TypeRelation, OSMID: 3372453, DisplayName: "Porto, Portugal"}, nil
	}
	return nil, osm.ErrPlaceNotFound
}

func (s *stubSource) Run(_ context.Context, q osm.Query) (*osm.Response, error) {
	s.queries = append(s.queries, q)
	return &osm.Response{Elements: s.elements}, nil
}

func fptr(f float64) *float64 { return &f }

func withSource(t *testing.T) *stubSource {
	t.Helper()
	src := &stubSource{elements: []osm.Element{
		{Type: osm.TypeNode, ID: 1, Lat: fptr(38.71), Lon: fptr(-9.14), Tags: map[string]string{"amenity": "school", "name": "Escola A"}},
		{Type: osm.TypeNode, ID: 2, Lat: fptr(38.72), Lon: fptr(-9.15), Tags: map[string]string{"amenity": "school", "name": "Liceu B"}},
	}}
	prev := newSource
	newSource = func(*cli.Command) extract.Source { return src }
	t.Cleanup(func() { newSource = prev })
	return src
}

func decodeRows(t *testing.T, out string) []map[string]interface{} {
	t.Helper()
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	return rows
}

func TestExtract_Stores(t *testing.T) {
	setupEnv(t)
	src := withSource(t)
	fake := newFakeS3()

	out, err := runApp(t, fake, "extract", "Lisbon, Portugal", "--values", "school", "--no-progress", "--output", "json")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, "Lisbon, Portugal", rows[0]["place"])
	assert.Equal(t, "amenities/lisbon_portugal.geojson", rows[0]["key"])
	assert.Equal(t, float64(2), rows[0]["features"])
	assert.Equal(t, "stored", rows[0]["status"])

	require.Len(t, src.queries, 1)
	assert.Equal(t, "amenity", src.queries[0].Key)
	assert.Equal(t, []string{"school"}, src.queries[0].Values)

	fc, err := geojson.UnmarshalFeatureCollection(fake.objects["amenities/lisbon_portugal.geojson"])
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)
}

func TestExtract_SkipsExisting(t *testing.T) {
	setupEnv(t)
	withSource(t)
	fake := newFakeS3()
	fake.objects["amenities/lisbon_portugal.geojson"] = []byte("{}")

	out, err := runApp(t, fake, "extract", "Lisbon, Portugal", "Porto, Portugal", "--no-progress", "--output", "json")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "skipped", rows[0]["status"])
	assert.Equal(t, "stored", rows[1]["status"])
	assert.Equal(t, []byte("{}"), fake.objects["amenities/lisbon_portugal.geojson"])

	out, err = runApp(t, fake, "extract", "Lisbon, Portugal", "--force", "--no-progress", "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, "stored", decodeRows(t, out)[0]["status"])
}

func TestExtract_FailureReported(t *testing.T) {
	setupEnv(t)
	withSource(t)
	fake := newFakeS3()

	out, err := runApp(t, fake, "extract", "Atlantis", "Porto, Portugal", "--no-progress", "--output", "json", "--attrs", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, osm.ErrPlaceNotFound))

	rows := decodeRows(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "failed", rows[0]["status"])
	assert.Contains(t, rows[0]["error"], "Atlantis")
	assert.Equal(t, "stored", rows[1]["status"])
	assert.Contains(t, fake.objects, "amenities/porto_portugal.geojson")
}

func TestExtract_DryRun(t *testing.T) {
	setupEnv(t)
	withSource(t)
	dir := t.TempDir()
	fake := newFakeS3()

	_, err := runApp(t, fake, "extract", "Lisbon, Portugal", "--name", "lisboa", "--folder", "schools",
		"--dry-run", "--out-dir", dir, "--no-progress", "--output", "json")
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "schools", "lisboa.geojson"))
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)
	assert.Empty(t, fake.objects)
	assert.Zero(t, fake.listCalls)
}

func TestExtract_ServerSideFilter(t *testing.T) {
	setupEnv(t)
	src := withSource(t)

	out, err := runApp(t, newFakeS3(), "extract", "Lisbon, Portugal", "--filter", "_wheelchair=yes,name^Escola",
		"--no-progress", "--output", "json")
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	assert.Equal(t, []string{`["wheelchair"="yes"]`}, src.queries[0].Where)
	assert.Equal(t, float64(1), decodeRows(t, out)[0]["features"])
}

func TestExtract_Jobs(t *testing.T) {
	setupEnv(t)
	src := withSource(t)
	fake := newFakeS3()

	jobsFile := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(jobsFile, []byte(`
defaults:
  key: amenity
  values: [school, university]
jobs:
  - place: Lisbon, Portugal
  - place: Porto, Portugal
    name: porto
    folder: north
`), 0o600))

	out, err := runApp(t, fake, "extract", "--jobs", jobsFile, "--no-progress", "--output", "json")
	require.NoError(t, err)

	rows := decodeRows(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "amenities/lisbon_portugal.geojson", rows[0]["key"])
	assert.Equal(t, "north/porto.geojson", rows[1]["key"])
	for _, q := range src.queries {
		assert.Equal(t, []string{"school", "university"}, q.Values)
	}
}

func TestExtract_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no places", []string{}, "at least one PLACE"},
		{"name with many places", []string{"Lisbon, Portugal", "Porto, Portugal", "--name", "x"}, "exactly one PLACE"},
		{"parallel zero", []string{"Lisbon, Portugal", "--parallel", "0"}, "at least 1"},
		{"missing jobs file", []string{"--jobs", "/nonexistent/jobs.yaml"}, "jobs.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t)
			withSource(t)

			_, err := runApp(t, newFakeS3(), append([]string{"extract", "--no-progress"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResultRow(t *testing.T) {
	job := extract.Job{Place: "Lisbon, Portugal", Name: "lisbon_portugal", Folder: "amenities"}

	tests := []struct {
		name   string
		result extract.Result
		status string
	}{
		{"stored", extract.Result{Job: job, Key: "amenities/lisbon_portugal.geojson", Features: 3, Bytes: 900}, "stored"},
		{"skipped", extract.Result{Job: job, Skipped: true}, "skipped"},
		{"failed", extract.Result{Job: job, Err: errors.New("boom")}, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := resultRow(tt.result)
			assert.Equal(t, tt.status, row["status"])
			assert.Equal(t, "Lisbon, Portugal", row["place"])
			if tt.result.Err != nil {
				assert.Equal(t, "boom", row["error"])
			} else {
				assert.NotContains(t, row, "error")
			}
		})
	}

	row := resultRow(extract.Result{
		Job:      job,
		Place:    &osm.Place{OSMType: osm.TypeRelation, OSMID: 5400890, DisplayName: "Lisboa"},
		Duration: 1234567 * time.Microsecond,
	})
	assert.Equal(t, "relation/5400890", row["osm_id"])
	assert.Equal(t, "Lisboa", row["display_name"])
	assert.Equal(t, "1.235s", row["duration"])
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"school", "university"}, splitList(" school, ,university,"))
	assert.Nil(t, splitList(""))
}
