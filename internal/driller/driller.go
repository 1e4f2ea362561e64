// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex matches one path step: a key with an optional [n], [*] or []
// suffix.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(\[(\d+|\*)?\])?$`)

// step is one parsed path segment. index is -1 when no element is chosen.
type step struct {
	key    string
	index  int
	spread bool
}

// parse splits a dotted path into steps. It reports false for any segment
// that isn't a plain key with an optional index.
func parse(path string) ([]step, bool) {
	if path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")
	steps := make([]step, 0, len(segments))
	for _, seg := range segments {
		m := segmentRegex.FindStringSubmatch(seg)
		if m == nil {
			return nil, false
		}
		s := step{key: m[1], index: -1, spread: m[3] == "*"}
		if m[3] != "" && !s.spread {
			n, err := strconv.Atoi(m[3])
			if err != nil {
				return nil, false
			}
			s.index = n
		}
		steps = append(steps, s)
	}
	return steps, true
}

// Drill follows a dotted path through a record, e.g. "interfaces[1].name".
// A step without an index unwraps a single element array and otherwise
// keeps the whole list, as does [*]. A bad path or an out of range index
// yields an empty result.
func Drill(record gjson.Result, path string) gjson.Result {
	steps, ok := parse(path)
	if !ok {
		return gjson.Result{}
	}

	node := record
	for _, s := range steps {
		node = node.Get(gjson.Escape(s.key))
		if !node.IsArray() {
			continue
		}

		elems := node.Array()
		if s.index >= 0 {
			if s.index >= len(elems) {
				return gjson.Result{}
			}
			node = elems[s.index]
		} else if len(elems) == 1 && !s.spread {
			node = elems[0]
		}
	}
	return node
}
