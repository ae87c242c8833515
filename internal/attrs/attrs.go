// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/osmx/osmx/internal/log"
)

// FieldSep separates the parts of one --attrs entry. Tag keys such as
// addr:city contain colons, so a pipe is used.
const FieldSep = "|"

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one output column.
type Attr struct {
	// Key is the row key, usually a feature property name.
	Key string `yaml:"key" json:"Key"`
	// Include is false for columns kept only for sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey is the column title and the key in json/yaml output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is applied to the value before output.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// New returns included attrs for keys, with OutputKey equal to Key.
func New(keys ...string) AttrList {
	list := make(AttrList, 0, len(keys))
	for _, k := range keys {
		list = append(list, Attr{Key: k, OutputKey: k, Include: true})
	}
	return list
}

// Transform applies the transform spec to value:
//
//	t  RFC3339 timestamp to local time
//	T  RFC3339 timestamp to relative time ("3 days ago")
//	h  byte count to a human size
//	l  lower case, u upper case (last one wins)
//	N  truncate to N, -N elide the middle to N
func (a *Attr) Transform(value interface{}) interface{} {
	if a.TransformSpec == "" {
		return value
	}

	if strings.Contains(a.TransformSpec, "h") {
		if n, ok := toUint64(value); ok {
			value = humanize.Bytes(n)
		}
	}

	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		if ts, err := time.Parse(time.RFC3339, result); err == nil {
			local := ts.In(time.Local)
			if strings.Contains(a.TransformSpec, "T") {
				result = humanize.Time(local)
			} else {
				result = local.Format("2006-01-02T15:04:05MST")
			}
			log.Tracef("time transformed: result=%s", result)
		}
	}

	// A global spec is prepended, so the last case letter is the most specific.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	if match := lengthRegex.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		runes := []rune(result)
		if abs > 0 && len(runes) > abs {
			if l < 0 {
				half := abs/2 - 1
				if half < 1 {
					half = 1
				}
				result = string(runes[:half]) + ".." + string(runes[len(runes)-half:])
			} else {
				result = string(runes[:abs])
			}
			log.Tracef("length transformed: result=%s", result)
		}
	}

	return result
}

// AttrList is an ordered set of output columns.
type AttrList []Attr

// Set merges an --attrs value into the list. Each comma separated entry is
// key[|outputKey[|transform]]. A leading ! hides the column; "*" carries a
// transform applied to every column.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		fields := strings.Split(spec, FieldSep)

		attr := Attr{Include: true, Key: strings.TrimSpace(fields[keyIdx])}
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec: %q", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				if attr.TransformSpec != "" {
					(*a)[i].TransformSpec = attr.TransformSpec
				}
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	log.Debugf("attrs set: attrs=%s", a.String())
	return nil
}

// SetGlobalTransformSpec prepends the "*" transform to every attr.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}

	for i := range *a {
		if (*a)[i].Key != "*" {
			(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
		}
	}
	return nil
}

// Included returns the columns to display.
func (a AttrList) Included() AttrList {
	var out AttrList
	for _, attr := range a {
		if attr.Include && attr.Key != "*" {
			out = append(out, attr)
		}
	}
	return out
}

// Shape projects rows onto the list: keys become OutputKeys and transforms
// are applied. Hidden columns are kept for sorting.
func (a AttrList) Shape(rows []map[string]interface{}) []map[string]interface{} {
	shaped := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		out := make(map[string]interface{}, len(a))
		for i := range a {
			if a[i].Key == "*" {
				continue
			}
			out[a[i].OutputKey] = a[i].Transform(row[a[i].Key])
		}
		shaped = append(shaped, out)
	}
	return shaped
}

// String renders the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, strings.Join([]string{attr.Key, attr.OutputKey, attr.TransformSpec}, FieldSep))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type name.
func (a *AttrList) Type() string { return "list" }

func toUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case int:
		return uint64(max(n, 0)), true
	case int64:
		return uint64(max(n, 0)), true
	case uint64:
		return n, true
	case float64:
		return uint64(math.Max(n, 0)), true
	case string:
		u, err := strconv.ParseUint(strings.TrimSpace(n), 10, 64)
		return u, err == nil
	}
	return 0, false
}
