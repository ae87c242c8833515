// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/osmx/osmx/internal/log"
)

// Identical is printed when two collections have no differences.
const Identical = "The documents are identical."

// Options controls Diff.
type Options struct {
	// Ignore lists property keys dropped from both sides before comparing.
	Ignore []string
	Color  bool
}

// Summary counts features by outcome. Keys are feature ids.
type Summary struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []string `json:"changed"`
}

// Modified reports whether anything differs.
func (s Summary) Modified() bool {
	return len(s.Added)+len(s.Removed)+len(s.Changed) > 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d added, %d removed, %d changed", len(s.Added), len(s.Removed), len(s.Changed))
}

// Diff writes an ASCII diff of two GeoJSON FeatureCollections to w. Features
// are matched by id so reordering is not a change. It returns the summary.
func Diff(w io.Writer, left, right []byte, opts Options) (Summary, error) {
	l, err := Normalize(left, opts.Ignore)
	if err != nil {
		return Summary{}, fmt.Errorf("left document: %w", err)
	}
	r, err := Normalize(right, opts.Ignore)
	if err != nil {
		return Summary{}, fmt.Errorf("right document: %w", err)
	}

	summary := Summarize(l, r)
	log.Debugf("diff summary: %s", summary)
	if !summary.Modified() {
		fmt.Fprintln(w, Identical)
		return summary, nil
	}

	lb, err := json.Marshal(l)
	if err != nil {
		return summary, err
	}
	rb, err := json.Marshal(r)
	if err != nil {
		return summary, err
	}

	delta, err := gojsondiff.New().Compare(lb, rb)
	if err != nil {
		return summary, fmt.Errorf("failed to compare documents: %w", err)
	}

	var ldoc map[string]interface{}
	if err := json.Unmarshal(lb, &ldoc); err != nil {
		return summary, err
	}

	f := formatter.NewAsciiFormatter(ldoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	})
	out, err := f.Format(delta)
	if err != nil {
		return summary, err
	}

	fmt.Fprint(w, out)
	fmt.Fprintln(w, summary)
	return summary, nil
}

// Normalize turns a FeatureCollection into a map of feature id to
// {geometry, properties}, dropping ignored property keys. Features without
// an id are keyed by element_type/osmid, or by position.
func Normalize(doc []byte, ignore []string) (map[string]interface{}, error) {
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(doc)
	if root.Get("type").String() != "FeatureCollection" {
		return nil, fmt.Errorf("not a FeatureCollection")
	}

	out := map[string]interface{}{}
	for i, f := range root.Get("features").Array() {
		props, _ := f.Get("properties").Value().(map[string]interface{})
		if props == nil {
			props = map[string]interface{}{}
		}
		for _, k := range ignore {
			delete(props, k)
		}

		id := f.Get("id").String()
		if id == "" {
			et, osmid := f.Get("properties.element_type"), f.Get("properties.osmid")
			if et.Exists() && osmid.Exists() {
				id = et.String() + "/" + osmid.String()
			} else {
				id = "#" + strconv.Itoa(i)
			}
		}

		out[id] = map[string]interface{}{
			"geometry":   f.Get("geometry").Value(),
			"properties": props,
		}
	}
	return out, nil
}

// Summarize compares two normalized collections.
func Summarize(left, right map[string]interface{}) Summary {
	s := Summary{Added: []string{}, Removed: []string{}, Changed: []string{}}
	for id, lv := range left {
		rv, ok := right[id]
		switch {
		case !ok:
			s.Removed = append(s.Removed, id)
		case !reflect.DeepEqual(lv, rv):
			s.Changed = append(s.Changed, id)
		}
	}
	for id := range right {
		if _, ok := left[id]; !ok {
			s.Added = append(s.Added, id)
		}
	}
	sort.Strings(s.Added)
	sort.Strings(s.Removed)
	sort.Strings(s.Changed)
	return s
}
