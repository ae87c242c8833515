// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package osm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultQueryTimeout is the server-side timeout sent with each query.
const DefaultQueryTimeout = 180 * time.Second

var (
	ErrNoKey   = errors.New("tag key is required")
	ErrNoPlace = errors.New("place is required")
)

// Query selects every element tagged Key (optionally restricted to Values)
// inside Place. Where holds extra tag predicates such as `["wheelchair"="yes"]`
// appended to every clause.
type Query struct {
	Place   *Place
	Key     string
	Values  []string
	Where   []string
	Timeout time.Duration
}

// BuildQuery renders q as Overpass QL. Places with an area are searched by
// area id; others by their bounding box.
func BuildQuery(q Query) (string, error) {
	if q.Place == nil {
		return "", ErrNoPlace
	}
	key := strings.TrimSpace(q.Key)
	if key == "" {
		return "", ErrNoKey
	}

	timeout := q.Timeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n", int(timeout.Seconds()))

	scope := ""
	if id, ok := q.Place.AreaID(); ok {
		fmt.Fprintf(&b, "area(id:%d)->.searchArea;\n", id)
		scope = "(area.searchArea)"
	} else {
		bb := q.Place.Bound
		scope = fmt.Sprintf("(%s,%s,%s,%s)",
			coord(bb.Min.Lat()), coord(bb.Min.Lon()), coord(bb.Max.Lat()), coord(bb.Max.Lon()))
	}

	where := strings.Join(q.Where, "")
	b.WriteString("(\n")
	values := nonEmpty(q.Values)
	if len(values) == 0 {
		fmt.Fprintf(&b, "  nwr[%s]%s%s;\n", quote(key), where, scope)
	}
	for _, v := range values {
		fmt.Fprintf(&b, "  nwr[%s=%s]%s%s;\n", quote(key), quote(v), where, scope)
	}
	b.WriteString(");\nout tags geom;\n")

	return b.String(), nil
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
