// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/tfctl/nodectl/internal/log"
)

// maxSchemaDepth limits how deep nested objects are walked.
const maxSchemaDepth = 2

// DumpSchema writes the sorted attribute paths found in records, followed by
// the kind's filter names, to w. If w is nil, os.Stdout is used.
func DumpSchema(records []gjson.Result, filterNames []string, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Record attributes that are directly available to the --attrs and --filter flags.
Nested attributes use dotted paths and list elements use [n] or [*].`)
	fmt.Fprintln(w, "")

	seen := map[string]struct{}{}
	for _, record := range records {
		dumpSchemaWalker("", record, 0, seen)
	}
	if len(seen) == 0 {
		log.Debugf("no attributes found: records=%d", len(records))
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}

	if len(filterNames) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Filter names:")
		for _, name := range filterNames {
			fmt.Fprintln(w, name)
		}
	}
}

// dumpSchemaWalker records the dotted path of every key of an object,
// descending into nested objects.
func dumpSchemaWalker(holder string, value gjson.Result, depth int, seen map[string]struct{}) {
	value.ForEach(func(key, child gjson.Result) bool {
		name := key.String()
		if holder != "" {
			name = holder + "." + name
		}
		seen[name] = struct{}{}

		if child.IsObject() && depth < maxSchemaDepth {
			dumpSchemaWalker(name, child, depth+1, seen)
		}
		return true
	})
}
