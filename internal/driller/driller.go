// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex matches one path segment: a key, optionally followed by [N],
// [*] or []. Keys may hold any character but dots and brackets, so tag keys
// such as addr:city work.
var segmentRegex = regexp.MustCompile(`^([^.\[\]]+)(\[(\d+|\*)?\])?$`)

// Drill navigates a GeoJSON document with a dot path such as
// "features[0].properties.name". [*] fans out over every element and the
// results are returned as an array. An array of one element is unwrapped
// when no index is given. An invalid or missing path returns an empty
// result.
func Drill(doc []byte, path string) gjson.Result {
	path = strings.TrimPrefix(strings.TrimSpace(path), ".")
	if path == "" {
		return gjson.ParseBytes(doc)
	}
	return drill(gjson.ParseBytes(doc), strings.Split(path, "."))
}

func drill(current gjson.Result, parts []string) gjson.Result {
	for i, p := range parts {
		matches := segmentRegex.FindStringSubmatch(p)
		if matches == nil {
			return gjson.Result{}
		}

		val := current.Get(gjson.Escape(matches[1]))
		if !val.Exists() {
			return gjson.Result{}
		}

		if val.IsArray() {
			arr := val.Array()
			switch idx := matches[3]; {
			case idx == "*":
				return fanOut(arr, parts[i+1:])
			case idx != "":
				n, err := strconv.Atoi(idx)
				if err != nil || n >= len(arr) {
					return gjson.Result{}
				}
				val = arr[n]
			case len(arr) == 1:
				val = arr[0]
			}
		}

		current = val
	}

	return current
}

// fanOut drills rest into every element and collects the results that exist.
func fanOut(arr []gjson.Result, rest []string) gjson.Result {
	raws := make([]string, 0, len(arr))
	for _, el := range arr {
		r := el
		if len(rest) > 0 {
			r = drill(el, rest)
		}
		if r.Exists() {
			raws = append(raws, r.Raw)
		}
	}
	return gjson.Parse("[" + strings.Join(raws, ",") + "]")
}
