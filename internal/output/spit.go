// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/osmx/osmx/internal/attrs"
	"github.com/osmx/osmx/internal/config"
	"github.com/osmx/osmx/internal/log"
)

// Formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatRaw  = "raw"
)

// Formats lists the valid --output values.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatRaw}

// Options controls how a dataset is rendered.
type Options struct {
	Format  string
	Sort    string
	Titles  bool
	Color   bool
	Padding int
	Header  string
	Footer  string
}

// InterfaceToString converts a value to its display form. A custom empty value
// may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case fmt.Stringer:
		return value.String()
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Spit shapes rows through list, sorts them and writes them to w in the
// requested format. A nil w writes to stdout.
func Spit(w io.Writer, rows []map[string]interface{}, list attrs.AttrList, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	shaped := list.Shape(rows)
	SortDataset(shaped, opts.Sort)
	cols := list.Included()

	switch opts.Format {
	case FormatJSON:
		out := make([]map[string]interface{}, 0, len(shaped))
		for _, row := range shaped {
			m := make(map[string]interface{}, len(cols))
			for _, c := range cols {
				m[c.OutputKey] = row[c.OutputKey]
			}
			out = append(out, m)
		}
		b, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to encode json output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err

	case FormatYAML:
		out := make([]yaml.MapSlice, 0, len(shaped))
		for _, row := range shaped {
			ms := make(yaml.MapSlice, 0, len(cols))
			for _, c := range cols {
				ms = append(ms, yaml.MapItem{Key: c.OutputKey, Value: row[c.OutputKey]})
			}
			out = append(out, ms)
		}
		b, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to encode yaml output: %w", err)
		}
		_, err = w.Write(b)
		return err

	case FormatRaw:
		for _, row := range shaped {
			fields := make([]string, 0, len(cols))
			for _, c := range cols {
				fields = append(fields, InterfaceToString(row[c.OutputKey]))
			}
			if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
				return err
			}
		}
		return nil

	case FormatText, "":
		TableWriter(w, shaped, cols, opts)
		return nil
	}

	return fmt.Errorf("unknown output format: %s", opts.Format)
}

// TableWriter renders rows as a borderless table honoring color, titles and
// padding options. Rows are keyed by OutputKey.
func TableWriter(w io.Writer, rows []map[string]interface{}, cols attrs.AttrList, opts Options) {
	if w == nil {
		w = os.Stdout
	}

	if len(rows) == 0 {
		log.Debug("no rows to render")
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")
		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(cols))
		for _, c := range cols {
			cells = append(cells, InterfaceToString(row[c.OutputKey], "-"))
		}
		data = append(data, cells)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Headers().
		Rows(data...)

	if opts.Titles {
		headers := make([]string, 0, len(cols))
		for _, c := range cols {
			headers = append(headers, c.OutputKey)
		}
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// getColors returns the table colors. Explicit colors from the config file
// win; otherwise defaults are picked for the terminal background.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		if c, err := config.GetString(key); err == nil && c != "" {
			return lipgloss.Color(c)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#1f6f43", "#7ee2a8")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")
	return
}
