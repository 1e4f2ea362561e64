// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func parse(docs ...string) []gjson.Result {
	out := make([]gjson.Result, 0, len(docs))
	for _, d := range docs {
		out = append(out, gjson.Parse(d))
	}
	return out
}

func byID(record gjson.Result) string {
	return record.Get("system_id").String()
}

func TestSnapshot(t *testing.T) {
	snap := Snapshot(parse(
		`{"system_id": "a", "hostname": "moon", "seen": 1}`,
		`{"hostname": "nokey"}`,
	), byID, []string{"seen"})

	require.Len(t, snap, 1)
	assert.Equal(t, map[string]interface{}{"system_id": "a", "hostname": "moon"}, snap["a"])
}

func TestCompare(t *testing.T) {
	older := parse(
		`{"system_id": "a", "status": "New"}`,
		`{"system_id": "b", "status": "Ready"}`,
		`{"system_id": "c", "status": "Ready", "seen": 1}`,
	)
	newer := parse(
		`{"system_id": "c", "status": "Ready", "seen": 2}`,
		`{"system_id": "b", "status": "Deployed"}`,
		`{"system_id": "d", "status": "New"}`,
	)

	_, _, changes := Compare(older, newer, byID, Options{Ignore: []string{"seen"}})
	assert.Equal(t, Changes{
		Added:   []string{"d"},
		Removed: []string{"a"},
		Changed: []string{"b"},
	}, changes)

	_, _, changes = Compare(older, newer, byID, Options{})
	assert.Equal(t, []string{"b", "c"}, changes.Changed)
}

func TestDiff(t *testing.T) {
	older := parse(`{"system_id": "a", "status": "New"}`, `{"system_id": "b", "status": "Ready"}`)
	newer := parse(`{"system_id": "b", "status": "Deployed"}`, `{"system_id": "a", "status": "New"}`)

	var buf bytes.Buffer
	changes, err := Diff(older, newer, byID, Options{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, changes.Changed)
	assert.Contains(t, buf.String(), `"Ready"`)
	assert.Contains(t, buf.String(), `"Deployed"`)
	assert.Contains(t, buf.String(), "0 added, 0 removed, 1 changed")
	assert.NotContains(t, buf.String(), "\x1b[", "no color unless asked")

	buf.Reset()
	changes, err = Diff(older, older, byID, Options{}, &buf)
	require.NoError(t, err)
	assert.True(t, changes.Empty())
	assert.Equal(t, "The snapshots are identical.\n", buf.String())
}
