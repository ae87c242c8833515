// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Table is the first sheet of a workbook: the first row becomes Columns and
// the remaining rows become Rows.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]string
}

// Records returns one map per row keyed by column name. Short rows are padded
// with empty strings; unnamed columns are keyed by their letter.
func (t *Table) Records() []map[string]interface{} {
	names := t.ColumnNames()
	records := make([]map[string]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]interface{}, len(names))
		for i, col := range names {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

// ColumnNames returns Columns with blank headers replaced by their column
// letter, widened to the longest row. Repeated names get a numeric suffix
// (name, name.1, name.2) so no column is lost in Records.
func (t *Table) ColumnNames() []string {
	width := len(t.Columns)
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	names := make([]string, width)
	for i := range names {
		if i < len(t.Columns) && t.Columns[i] != "" {
			names[i] = t.Columns[i]
			continue
		}
		letter, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			letter = fmt.Sprintf("col%d", i+1)
		}
		names[i] = letter
	}
	return dedupeNames(names)
}

func dedupeNames(names []string) []string {
	used := make(map[string]bool, len(names))
	next := map[string]int{}
	for i, name := range names {
		if !used[name] {
			used[name] = true
			continue
		}
		n := next[name]
		candidate := name
		for used[candidate] {
			n++
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		next[name] = n
		used[candidate] = true
		names[i] = candidate
	}
	return names
}

// GetExcel downloads folder/name.xlsx and returns its first sheet.
func (s *Store) GetExcel(ctx context.Context, name, folder string) (*Table, error) {
	key := Key(folder, name, ".xlsx")
	body, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	t, err := ParseExcel(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.URI(key), err)
	}
	return t, nil
}

// ParseExcel reads the first sheet of an xlsx workbook.
func ParseExcel(body []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	t := &Table{Sheet: sheets[0]}
	if len(rows) > 0 {
		t.Columns = rows[0]
		t.Rows = rows[1:]
	}
	return t, nil
}
