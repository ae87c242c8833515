// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/osmx/osmx/internal/extract"
	"github.com/osmx/osmx/internal/log"
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))
)

type eventMsg extract.Event

type doneMsg struct{}

type row struct {
	job   extract.Job
	state extract.EventType
	seen  bool
	ev    extract.Event
}

// Model renders one line per job.
type Model struct {
	spinner spinner.Model
	rows    []row
	done    bool
}

// New returns a Model listing jobs as pending.
func New(jobs []extract.Job) Model {
	rows := make([]row, len(jobs))
	for i, j := range jobs {
		rows[i] = row{job: j}
	}
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = spinnerStyle
	return Model{spinner: s, rows: rows}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if msg.Index >= 0 && msg.Index < len(m.rows) {
			r := &m.rows[msg.Index]
			r.seen = true
			r.state = msg.Type
			r.ev = extract.Event(msg)
		}
		return m, nil
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	stored, skipped, failed := 0, 0, 0
	for _, r := range m.rows {
		b.WriteString(m.line(r))
		b.WriteByte('\n')
		switch r.state {
		case extract.Uploaded:
			stored++
		case extract.Skipped:
			skipped++
		case extract.Failed:
			failed++
		}
	}
	if m.done {
		fmt.Fprintf(&b, "\n%d stored, %d skipped, %d failed\n", stored, skipped, failed)
	}
	return b.String()
}

func (m Model) line(r row) string {
	place := r.job.Place
	if !r.seen {
		return faintStyle.Render("· " + place + "  pending")
	}
	switch r.state {
	case extract.Started:
		return m.spinner.View() + " " + place + faintStyle.Render("  querying overpass")
	case extract.Fetched:
		return m.spinner.View() + " " + place + faintStyle.Render(fmt.Sprintf("  %d features, uploading", r.ev.Features))
	case extract.Uploaded:
		return doneStyle.Render("✓") + " " + place + faintStyle.Render(fmt.Sprintf("  %d features → %s (%s)",
			r.ev.Features, r.ev.Key, humanize.Bytes(uint64(r.ev.Bytes)))) //nolint:gosec
	case extract.Skipped:
		return faintStyle.Render("- " + place + "  exists: " + r.ev.Key)
	case extract.Failed:
		msg := "failed"
		if r.ev.Err != nil {
			msg = r.ev.Err.Error()
		}
		return failStyle.Render("✗") + " " + place + "  " + failStyle.Render(msg)
	}
	return place
}

type teaReporter struct {
	p *tea.Program
}

func (r teaReporter) Report(e extract.Event) {
	r.p.Send(eventMsg(e))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

// Run calls fn with a Reporter. When out is a terminal and live is set the
// reporter drives a status view on out; otherwise events are logged. Leaving
// the view with ctrl+c cancels the context passed to fn.
func Run(ctx context.Context, out *os.File, live bool, jobs []extract.Job, fn func(context.Context, extract.Reporter) error) error {
	if !live || !IsTerminal(out) {
		return fn(ctx, extract.LogReporter{})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(jobs), tea.WithOutput(out), tea.WithContext(ctx))
	errc := make(chan error, 1)
	go func() {
		errc <- fn(ctx, teaReporter{p: p})
		p.Send(doneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		log.Debugf("progress view ended: %v", err)
	}
	cancel()
	return <-errc
}
