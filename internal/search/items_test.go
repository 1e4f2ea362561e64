// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package search

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record is a map backed record for engine tests.
type record map[string]interface{}

// recordAccessor reads records keyed by system_id.
type recordAccessor struct{}

func (recordAccessor) PrimaryKey(item record) string {
	id, _ := item["system_id"].(string)
	return id
}

func (recordAccessor) Attributes(item record) []string {
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (recordAccessor) Value(item record, attr string) any {
	return item[attr]
}

// testFilterItemsCase represents a single test case for TestFilterItems.
type testFilterItemsCase struct {
	Name     string   `yaml:"name"`
	Search   string   `yaml:"search"`
	Selected []string `yaml:"selected"`
	Records  []record `yaml:"records"`
	Want     []int    `yaml:"want"`
}

func TestFilterItems(t *testing.T) {
	var cases []testFilterItemsCase
	loadTestData(t, "filter_items.yaml", &cases)
	require.NotEmpty(t, cases)

	items := NewItems[record](recordAccessor{})
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			want := make([]record, 0, len(tc.Want))
			for _, i := range tc.Want {
				want = append(want, tc.Records[i])
			}
			got := items.FilterItems(tc.Records, tc.Search, tc.Selected)
			assert.Equal(t, want, got, "search %q", tc.Search)
		})
	}
}

func TestFilterItemsShortCircuit(t *testing.T) {
	items := NewItems[record](recordAccessor{})

	records := []record{{"system_id": "a"}}
	assert.Equal(t, records, items.FilterItems(records, "", nil))
	assert.Nil(t, items.FilterItems(nil, "moon", nil))
	assert.Empty(t, items.FilterItems([]record{}, "moon", nil))
}

func TestFilterItemsPrefixed(t *testing.T) {
	items := NewItems[record](recordAccessor{}, PrefixedFilter{Filter: "labels", Prefix: "label"})
	records := []record{
		{"system_id": "a", "label-team": "storage"},
		{"system_id": "b", "label-owner": "ops"},
	}

	got := items.FilterItems(records, "label-team:()", nil)
	assert.Equal(t, records[:1], got)

	got = items.FilterItems(records, "label-owner", nil)
	assert.Equal(t, records[1:], got)

	got = items.FilterItems(records, "label-team:(stor)", nil)
	assert.Equal(t, records[:1], got)
}

func TestFilterByTermsSelectedUsesFirstTerm(t *testing.T) {
	items := NewItems[record](recordAccessor{})
	records := []record{{"system_id": "a"}, {"system_id": "b"}}

	got := items.FilterByTerms(records, SelectedKey, []string{"!selected", "selected"}, []string{"a"})
	assert.Equal(t, records[1:], got)
}

func TestFilterItemsNegation(t *testing.T) {
	items := NewItems[record](recordAccessor{})
	records := []record{
		{"system_id": "a", "status": "Deployed"},
		{"system_id": "b", "status": "New"},
	}

	for _, search := range []string{"status:!new", "status:!(new)", "status:(!new)", "!new"} {
		t.Run(search, func(t *testing.T) {
			assert.Equal(t, records[:1], items.FilterItems(records, search, nil))
		})
	}
}

func TestFilterByTermsNegatedArray(t *testing.T) {
	items := NewItems[record](recordAccessor{})
	records := []record{
		{"system_id": "a", "tags": []any{"first", "second"}},
		{"system_id": "b", "tags": []any{"second", "third"}},
		{"system_id": "c", "tags": []any{"fourth"}},
	}

	// One matching element is enough to drop the record.
	got := items.FilterByTerms(records, "tags", []string{"!first"}, nil)
	assert.Equal(t, records[1:], got)

	// A negated term that holds counts as a match of its own.
	got = items.FilterByTerms(records, "tags", []string{"second", "!third"}, nil)
	assert.Equal(t, []record{records[0], records[2]}, got)

	// Each element is tested on its own.
	assert.True(t, Matches("second", ParseTerm("!first")))
	assert.False(t, Matches("first", ParseTerm("!first")))
}

func TestMatchesNumbers(t *testing.T) {
	tests := []struct {
		name  string
		value any
		term  string
		want  bool
	}{
		{"at least below", 4, "3", true},
		{"at least equal", 4, "4", true},
		{"at least above", 4, "5", false},
		{"exact equal", 4, "=4", true},
		{"exact differs", 4, "=3", false},
		{"negated at least", 4, "!5", true},
		{"exact integer truncates the term", 4, "=4.7", true},
		{"at least keeps the term fraction", 4, "4.5", false},
		{"at least fraction below", 4, "3.5", true},
		{"unit suffix is not a number", 4, "4GB", false},
		{"digit led text is not a number", 1, "1nam", false},
		{"float keeps the fraction", 2.2, "2.3", false},
		{"float at least", 2.2, "1.5", true},
		{"float exact", 2.5, "=2.5", true},
		{"integral float truncates", 2.0, "=2.9", true},
		{"term with spaces", int64(8), " 8 ", true},
		{"not a number", 4, "four", false},
		{"not a number negated", 4, "!four", true},
		{"infinity never matches", 4, "-inf", false},
		{"unsigned", uint32(16), "16", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.value, ParseTerm(tt.term)))
		})
	}
}

func TestMatchesStrings(t *testing.T) {
	tests := []struct {
		name  string
		value any
		term  string
		want  bool
	}{
		{"contains", "Failed commissioning", "comm", true},
		{"contains ignores case", "Deploying", "DEP", true},
		{"exact", "New", "=new", true},
		{"exact rejects substring", "New", "=ne", false},
		{"negated exact", "New", "!=new", false},
		{"negated exact other order", "Old", "=!new", true},
		{"bool", true, "tru", true},
		{"map", map[string]interface{}{"name": "first"}, "first", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.value, ParseTerm(tt.term)))
		})
	}
}

func TestIsFilterValue(t *testing.T) {
	assert.True(t, IsFilterValue("x"))
	assert.True(t, IsFilterValue(0))
	assert.True(t, IsFilterValue(0.0))
	assert.True(t, IsFilterValue(true))
	assert.True(t, IsFilterValue([]string{"a"}))
	assert.True(t, IsFilterValue([]int{0}))
	assert.False(t, IsFilterValue(nil))
	assert.False(t, IsFilterValue(""))
	assert.False(t, IsFilterValue(false))
	assert.False(t, IsFilterValue([]interface{}{}))
	assert.False(t, IsFilterValue([]float64{}))
}
