// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inspectFixture(t *testing.T) ([]byte, *geojson.FeatureCollection) {
	t.Helper()
	doc := collection(t, "Escola A", "Liceu B", "Escola C")
	fc, err := geojson.UnmarshalFeatureCollection(doc)
	require.NoError(t, err)
	fc.Features[1].Properties["wheelchair"] = "yes"
	doc, err = fc.MarshalJSON()
	require.NoError(t, err)
	return doc, fc
}

func TestEvalInspectQuery(t *testing.T) {
	doc, fc := inspectFixture(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"count", []string{"3 features"}},
		{"help", []string{"Query syntax:"}},
		{".features.#", []string{"3"}},
		{".features.1.properties.name", []string{`"Liceu B"`}},
		{".features.9.id", []string{"No results found."}},
		{".features[*].properties.wheelchair", []string{`["yes"]`}},
		{".features[2].id", []string{`"node/3"`}},
		{"name^Escola", []string{"node/1", "node/3", "2 of 3 features matched"}},
		{"wheelchair=yes", []string{"node/2", "1 of 3 features matched"}},
		{"osmid>5", []string{"0 of 3 features matched"}},
		{"=broken", []string{"Invalid query: =broken"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := evalInspectQuery(doc, fc, tt.query)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestPropertyKeyCounts(t *testing.T) {
	_, fc := inspectFixture(t)

	lines := strings.Split(propertyKeyCounts(fc), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "     3  amenity", lines[0])
	assert.Equal(t, "     1  wheelchair", lines[4])

	assert.Equal(t, "No properties found.", propertyKeyCounts(geojson.NewFeatureCollection()))
}

func TestInspectModel(t *testing.T) {
	doc, fc := inspectFixture(t)
	historyFile := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(historyFile, []byte("keys\n\n"), 0o600))

	m := initialInspectModel("lisbon", doc, fc, historyFile)
	assert.Equal(t, []string{"keys"}, m.history)
	assert.Contains(t, m.View(), "Collection lisbon loaded. 3 features found.")

	enter := func(m inspectModel, entry string) (inspectModel, tea.Cmd) {
		m.input.SetValue(entry)
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return next.(inspectModel), cmd
	}

	m, cmd := enter(m, "count")
	assert.Nil(t, cmd)
	assert.Equal(t, "3 features", m.output[len(m.output)-1])
	assert.Equal(t, "", m.input.Value())
	assert.Contains(t, m.View(), "count")

	saved, err := os.ReadFile(historyFile)
	require.NoError(t, err)
	assert.Equal(t, "keys\ncount\n", string(saved))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(inspectModel)
	assert.Equal(t, "count", m.input.Value())
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(inspectModel)
	assert.Equal(t, "keys", m.input.Value())
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(inspectModel)
	assert.Equal(t, "count", m.input.Value())
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(inspectModel)
	assert.Equal(t, "", m.input.Value())

	m, cmd = enter(m, "   ")
	assert.Nil(t, cmd)
	assert.Len(t, m.sessionHistory, 1)

	_, cmd = enter(m, "exit")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestInspect_MissingName(t *testing.T) {
	setupEnv(t)

	_, err := runApp(t, newFakeS3(), "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a NAME")
}
