// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/nodectl/internal/log"
)

// KeyFunc returns the primary key of a record.
type KeyFunc func(record gjson.Result) string

// Options tunes a diff.
type Options struct {
	// Ignore lists top level attributes left out of the comparison.
	Ignore []string
	// Color enables ANSI coloring of the delta.
	Color bool
}

// Changes summarizes a diff by primary key.
type Changes struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether the snapshots are identical.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Snapshot indexes records by primary key, dropping ignored attributes.
// Records without a key are skipped.
func Snapshot(records []gjson.Result, key KeyFunc, ignore []string) map[string]interface{} {
	snap := make(map[string]interface{}, len(records))
	for _, record := range records {
		id := key(record)
		if id == "" {
			log.Debugf("skipping record without key: %s", record.Raw)
			continue
		}
		value, ok := record.Value().(map[string]interface{})
		if !ok {
			continue
		}
		for _, attr := range ignore {
			delete(value, attr)
		}
		snap[id] = value
	}
	return snap
}

// Compare pairs the records of both snapshots by key and summarizes what
// changed.
func Compare(older, newer []gjson.Result, key KeyFunc, opts Options) (gojsondiff.Diff, map[string]interface{}, Changes) {
	left := Snapshot(older, key, opts.Ignore)
	right := Snapshot(newer, key, opts.Ignore)

	delta := gojsondiff.New().CompareObjects(left, right)

	var changes Changes
	for id, l := range left {
		r, ok := right[id]
		if !ok {
			changes.Removed = append(changes.Removed, id)
			continue
		}
		if gojsondiff.New().CompareObjects(l.(map[string]interface{}), r.(map[string]interface{})).Modified() {
			changes.Changed = append(changes.Changed, id)
		}
	}
	for id := range right {
		if _, ok := left[id]; !ok {
			changes.Added = append(changes.Added, id)
		}
	}
	slices.Sort(changes.Added)
	slices.Sort(changes.Removed)
	slices.Sort(changes.Changed)

	return delta, left, changes
}

// Diff writes an ASCII delta between two snapshots to w. If w is nil,
// os.Stdout is used.
func Diff(older, newer []gjson.Result, key KeyFunc, opts Options, w io.Writer) (Changes, error) {
	if w == nil {
		w = os.Stdout
	}
	log.Debugf("diffing snapshots: older=%d, newer=%d", len(older), len(newer))

	delta, left, changes := Compare(older, newer, key, opts)
	if !delta.Modified() {
		fmt.Fprintln(w, "The snapshots are identical.")
		return changes, nil
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	})
	diffString, err := f.Format(delta)
	if err != nil {
		return changes, fmt.Errorf("failed to format diff: %w", err)
	}

	fmt.Fprint(w, diffString)
	fmt.Fprintf(w, "\n%d added, %d removed, %d changed\n",
		len(changes.Added), len(changes.Removed), len(changes.Changed))
	return changes, nil
}
