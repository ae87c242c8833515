// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/driller"
	"github.com/osmx/osmx/internal/filters"
	"github.com/osmx/osmx/internal/meta"
	"github.com/osmx/osmx/internal/store"
)

// inspectMaxRows caps the features listed for a filter query.
const inspectMaxRows = 20

// inspectCommandAction is the action handler for the "inspect" subcommand. It
// loads a collection and opens an interactive console to query it.
func inspectCommandAction(ctx context.Context, cmd *cli.Command) error {
	logAction(cmd)

	config.Config.Namespace = "inspect"

	name := strings.TrimSuffix(firstArg(cmd), ".geojson")
	if name == "" {
		return errors.New("inspect requires a NAME")
	}

	bucket := func() (*store.Store, error) { return InitStore(ctx, cmd, false) }
	doc, err := loadOperand(ctx, bucket, firstArg(cmd), cmd.String("folder"), false)
	if err != nil {
		return err
	}

	fc, err := geojson.UnmarshalFeatureCollection(doc)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}

	return runInspectConsole(name, doc, fc)
}

// inspectModel represents the Bubble Tea model for the inspect console.
type inspectModel struct {
	input          textinput.Model
	history        []string // Full history for navigation (includes file history)
	sessionHistory []string // Only commands from this session (matches with outputs)
	histIndex      int
	output         []string
	doc            []byte
	fc             *geojson.FeatureCollection
	historyFile    string
}

func initialInspectModel(name string, doc []byte, fc *geojson.FeatureCollection, historyFile string) inspectModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	output := []string{
		fmt.Sprintf("Collection %s loaded. %d features found.", name, len(fc.Features)),
		"Type 'help' for syntax, 'exit' or Ctrl+C to quit.",
	}

	return inspectModel{
		input:          ti,
		history:        loadInspectHistory(historyFile),
		sessionHistory: []string{},
		histIndex:      -1,
		output:         output,
		doc:            doc,
		fc:             fc,
		historyFile:    historyFile,
	}
}

func (m inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if entry == "" {
				return m, nil
			}
			if entry == "exit" || entry == "quit" {
				return m, tea.Quit
			}

			m.history = append(m.history, entry)
			m.sessionHistory = append(m.sessionHistory, entry)
			m.histIndex = -1
			m.output = append(m.output, evalInspectQuery(m.doc, m.fc, entry))
			saveInspectHistory(m.historyFile, m.history)
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inspectModel) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))

	var lines []string

	// The two welcome lines come first; each session entry is followed by its
	// output.
	lines = append(lines, m.output[:2]...)
	for i, entry := range m.sessionHistory {
		lines = append(lines, promptStyle.Render("> ")+entry)
		if i+2 < len(m.output) {
			lines = append(lines, m.output[i+2])
		}
	}

	lines = append(lines, promptStyle.Render("> ")+m.input.View())

	return strings.Join(lines, "\n")
}

// evalInspectQuery answers one console entry.
func evalInspectQuery(doc []byte, fc *geojson.FeatureCollection, query string) string {
	switch {
	case query == "help":
		return inspectHelp
	case query == "count":
		return fmt.Sprintf("%d features", len(fc.Features))
	case query == "keys":
		return propertyKeyCounts(fc)
	case strings.HasPrefix(query, "."):
		r := driller.Drill(doc, query)
		if !r.Exists() {
			r = gjson.GetBytes(doc, strings.TrimPrefix(query, "."))
		}
		if !r.Exists() {
			return "No results found."
		}
		return r.Raw
	}

	if len(filters.BuildFilters(query)) == 0 {
		return fmt.Sprintf("Invalid query: %s", query)
	}
	matched := filters.Apply(fc, query)

	var b strings.Builder
	for i, f := range matched.Features {
		if i == inspectMaxRows {
			fmt.Fprintf(&b, "...\n")
			break
		}
		row := featureRow(f)
		fmt.Fprintf(&b, "%-20v %v\n", row["id"], row["name"])
	}
	fmt.Fprintf(&b, "%d of %d features matched", len(matched.Features), len(fc.Features))
	return b.String()
}

// propertyKeyCounts lists property keys by how many features carry them.
func propertyKeyCounts(fc *geojson.FeatureCollection) string {
	counts := map[string]int{}
	for _, f := range fc.Features {
		for k := range f.Properties {
			counts[k]++
		}
	}
	if len(counts) == 0 {
		return "No properties found."
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%6d  %s", counts[k], k))
	}
	return strings.Join(lines, "\n")
}

const inspectHelp = `Query syntax:
  Filters (same grammar as --filter)
     amenity=school                   - Features whose amenity is school
     name^Escola                      - Names starting with Escola
     wheelchair                       - Features carrying a wheelchair tag
     capacity>100,name!@Private       - Several filters, all must match
     geometry.type=Polygon            - Paths into the feature work too

  Paths (queries starting with '.')
     .features[0].properties          - Properties of the first feature
     .features[*].properties.name     - Every name that is set
     .features.#                      - Number of features
     .features.#.properties.name      - Every name (gjson syntax)

  Other:
     count                            - Number of features
     keys                             - Property keys by frequency

  Navigation:
     ↑/↓ arrows                       - Navigate command history
     Ctrl+C                           - Exit`

// getInspectHistoryFile returns the path to the inspect history file.
func getInspectHistoryFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".osmx_inspect_history"
	}
	return filepath.Join(homeDir, ".osmx_inspect_history")
}

func loadInspectHistory(filename string) []string {
	var history []string

	file, err := os.Open(filename)
	if err != nil {
		return history
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			history = append(history, line)
		}
	}

	return history
}

func saveInspectHistory(filename string, history []string) {
	// Keep only the last 1000 commands
	maxHistory := 1000
	start := 0
	if len(history) > maxHistory {
		start = len(history) - maxHistory
	}

	file, err := os.Create(filename)
	if err != nil {
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := start; i < len(history); i++ {
		fmt.Fprintln(writer, history[i])
	}
	writer.Flush()
}

func runInspectConsole(name string, doc []byte, fc *geojson.FeatureCollection) error {
	p := tea.NewProgram(initialInspectModel(name, doc, fc, getInspectHistoryFile()))
	_, err := p.Run()
	return err
}

// inspectCommandBuilder constructs the cli.Command for "inspect" and wires up
// metadata, flags, and the action handler.
func inspectCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "interactive collection inspector",
		UsageText: "osmx inspect NAME|FILE [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NewFolderFlag("inspect", meta.Config.Source),
		}, NewStoreFlags("inspect", meta.Config.Source)...),
		Action: inspectCommandAction,
	}
}
