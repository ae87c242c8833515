// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/osmx/osmx/internal/store"
)

// SelectObjects lets the user pick two stored objects to compare. It returns
// nil when the picker is abandoned.
func SelectObjects(items []store.Object) ([]store.Object, error) {
	p := tea.NewProgram(newPicker(items))
	m, err := p.Run()
	if err != nil {
		return nil, err
	}
	return m.(picker).selected, nil
}

type picker struct {
	items    []store.Object
	cursor   int
	selected []store.Object
}

func newPicker(items []store.Object) picker {
	return picker{items: items}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.selected = nil
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		if len(m.items) == 0 {
			break
		}
		current := m.items[m.cursor]
		if i := indexOf(m.selected, current); i >= 0 {
			m.selected = append(m.selected[:i], m.selected[i+1:]...)
		} else if len(m.selected) < 2 {
			m.selected = append(m.selected, current)
		}
	case "enter":
		if len(m.selected) == 2 {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString("Select two collections:\n\n")
	for i, o := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if indexOf(m.selected, o) >= 0 {
			mark = "x"
		}
		fmt.Fprintf(&b, "%s [%s] %-48s %9s %s\n", cursor, mark, o.Key,
			humanize.Bytes(uint64(o.Size)), o.LastModified.Format("2006-01-02T15:04:05Z"))
	}
	b.WriteString("\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n")
	return b.String()
}

func indexOf(objects []store.Object, o store.Object) int {
	for i, v := range objects {
		if v.Key == o.Key {
			return i
		}
	}
	return -1
}
