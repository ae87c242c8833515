// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"

	"github.com/osmx/osmx/internal/log"
)

// EnvDelim overrides the filter separator for values that contain commas.
const EnvDelim = "OSMX_FILTER_DELIM"

// filterRegex splits an expression into an optional leading underscore
// (Overpass-side filter), the key, an optional negated operator and the
// target. Examples: "name" (key only), "cuisine=pizza", "name!^Escola",
// "_wheelchair=yes".
var filterRegex = regexp.MustCompile(`^(_)?([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key        string `yaml:"key" json:"Key"`
	Negate     bool   `yaml:"negate" json:"Negate"`
	Operand    string `yaml:"operand" json:"Operand"`
	ServerSide bool   `yaml:"serverSide" json:"ServerSide"`
	Value      string `yaml:"value" json:"Value"`
}

// BuildFilters parses spec into filters. Malformed entries are logged and
// skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if strings.TrimSpace(spec) == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv(EnvDelim); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Errorf("invalid filter: %s", filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[2])
		if key == "" {
			log.Errorf("invalid filter: empty key in %s", filterSpec)
			continue
		}

		operand := parts[3]
		negate := strings.HasPrefix(operand, "!")
		filters = append(filters, Filter{
			Key:        key,
			ServerSide: parts[1] == "_",
			Negate:     negate,
			Operand:    strings.TrimPrefix(operand, "!"),
			Value:      parts[4],
		})
	}

	return filters
}

// Split separates Overpass-side filters from those applied to features.
func Split(filters []Filter) (server, client []Filter) {
	for _, f := range filters {
		if f.ServerSide {
			server = append(server, f)
		} else {
			client = append(client, f)
		}
	}
	return server, client
}

// Apply returns a collection holding the features of fc that satisfy every
// client-side filter in spec. fc is returned unchanged when there is nothing
// to apply.
func Apply(fc *geojson.FeatureCollection, spec string) *geojson.FeatureCollection {
	_, filters := Split(BuildFilters(spec))
	if fc == nil || len(filters) == 0 {
		return fc
	}

	out := geojson.NewFeatureCollection()
	out.BBox = fc.BBox
	for _, f := range fc.Features {
		if MatchFeature(f, filters) {
			out.Append(f)
		}
	}
	log.Debugf("filters kept %d of %d features", len(out.Features), len(fc.Features))
	return out
}

// MatchFeature reports whether f satisfies all client-side filters. Keys are
// looked up as property names first and then as paths into the feature, so
// "geometry.type=Polygon" and "id^way/" work too.
func MatchFeature(f *geojson.Feature, filters []Filter) bool {
	raw, err := f.MarshalJSON()
	if err != nil {
		log.WithError(err).Warnf("failed to encode feature for filtering")
		return false
	}
	return matchRaw(raw, filters)
}

// FilterRows returns the rows of a tabular result that satisfy every
// client-side filter in spec.
func FilterRows(rows []map[string]interface{}, spec string) []map[string]interface{} {
	_, filters := Split(BuildFilters(spec))
	if len(filters) == 0 {
		return rows
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			log.WithError(err).Warnf("failed to encode row for filtering")
			continue
		}
		if matchRaw(raw, filters) {
			out = append(out, row)
		}
	}
	return out
}

func matchRaw(raw []byte, filters []Filter) bool {
	for _, filter := range filters {
		if filter.ServerSide {
			continue
		}

		value := gjson.GetBytes(raw, "properties."+gjson.Escape(filter.Key))
		if !value.Exists() {
			value = gjson.GetBytes(raw, filter.Key)
		}
		if !value.Exists() || value.Type == gjson.Null {
			return false
		}

		if !checkValue(value, filter) {
			return false
		}
	}
	return true
}

func checkValue(value gjson.Result, filter Filter) bool {
	switch {
	case filter.Operand == "":
		return value.String() != ""
	case value.IsArray() || value.IsObject():
		if filter.Operand == "@" {
			return checkContainsOperand(value, filter)
		}
		return checkStringOperand(value.Raw, filter)
	case value.Type == gjson.Number && isNumericOperand(filter.Operand):
		return checkNumericOperand(value.Float(), filter)
	case value.Type == gjson.String && (filter.Operand == "<" || filter.Operand == ">"):
		// Tag values are strings; compare numerically when both sides parse.
		if n, err := strconv.ParseFloat(strings.TrimSpace(value.Str), 64); err == nil {
			if _, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64); err == nil {
				return checkNumericOperand(n, filter)
			}
		}
	}
	return checkStringOperand(value.String(), filter)
}

func isNumericOperand(op string) bool {
	return op == "=" || op == "<" || op == ">"
}

// checkContainsOperand evaluates '@' against arrays (element equality) and
// objects (key presence).
func checkContainsOperand(value gjson.Result, filter Filter) bool {
	if value.IsObject() {
		found := value.Get(gjson.Escape(filter.Value)).Exists()
		return found == !filter.Negate
	}
	for _, item := range value.Array() {
		if item.String() == filter.Value {
			return !filter.Negate
		}
	}
	return filter.Negate
}

// checkNumericOperand compares value with the filter value numerically.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Errorf("invalid numeric value: %s", filter.Value)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Errorf("unsupported numeric operand: %s", filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison against value.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return value > filter.Value == !filter.Negate
	case "<":
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Errorf("invalid regex: %s", filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Errorf("unsupported filtering operand: %s", filter.Operand)
		return false
	}
}

// OverpassPredicates renders server-side filters as Overpass QL tag
// predicates, e.g. `["wheelchair"="yes"]`. Client-side filters are ignored.
func OverpassPredicates(filters []Filter) ([]string, error) {
	var preds []string
	for _, f := range filters {
		if !f.ServerSide {
			continue
		}

		k := quote(f.Key)
		not := ""
		if f.Negate {
			not = "!"
		}

		var p string
		switch f.Operand {
		case "":
			p = fmt.Sprintf("[%s]", k)
		case "=":
			p = fmt.Sprintf("[%s%s=%s]", k, not, quote(f.Value))
		case "~":
			p = fmt.Sprintf("[%s%s~%s,i]", k, not, quote("^"+regexp.QuoteMeta(f.Value)+"$"))
		case "^":
			p = fmt.Sprintf("[%s%s~%s]", k, not, quote("^"+regexp.QuoteMeta(f.Value)))
		case "@":
			p = fmt.Sprintf("[%s%s~%s]", k, not, quote(regexp.QuoteMeta(f.Value)))
		case "/":
			p = fmt.Sprintf("[%s%s~%s]", k, not, quote(f.Value))
		default:
			return nil, fmt.Errorf("operand %q cannot be applied by overpass: _%s", f.Operand, f.Key)
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
