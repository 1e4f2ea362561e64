// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package search

import (
	"embed"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// testPrefixed are the prefixed filters declared for every handler test.
var testPrefixed = []PrefixedFilter{
	{Filter: "workload_annotations", Prefix: "workload"},
	{Filter: "koala_type", Prefix: "koala"},
}

// testCurrentFiltersCase represents a single test case for
// TestCurrentFilters.
type testCurrentFiltersCase struct {
	Name   string  `yaml:"name"`
	Search string  `yaml:"search"`
	Want   Filters `yaml:"want"`
}

// testFiltersToStringCase represents a single test case for
// TestFiltersToString.
type testFiltersToStringCase struct {
	Name    string  `yaml:"name"`
	Filters Filters `yaml:"filters"`
	Want    string  `yaml:"want"`
}

// testToggleFilterCase represents a single test case for TestToggleFilter.
type testToggleFilterCase struct {
	Name        string  `yaml:"name"`
	Filters     Filters `yaml:"filters"`
	Type        string  `yaml:"type"`
	Value       string  `yaml:"value"`
	Exact       bool    `yaml:"exact"`
	ShouldExist *bool   `yaml:"shouldExist"`
	Want        Filters `yaml:"want"`
}

// loadTestData unmarshals the named YAML file from testdata into out.
func loadTestData(t *testing.T, name string, out interface{}) {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + name)
	require.NoError(t, err, "failed to read %s", name)
	require.NoError(t, yaml.Unmarshal(data, out), "failed to unmarshal %s", name)
}

// diffFilters compares filter sets, treating nil and empty value lists alike.
func diffFilters(want, got Filters) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

func TestCurrentFilters(t *testing.T) {
	var cases []testCurrentFiltersCase
	loadTestData(t, "current_filters.yaml", &cases)
	require.NotEmpty(t, cases)

	h := NewHandlers(testPrefixed...)
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			got := h.CurrentFilters(tc.Search)
			if diff := diffFilters(tc.Want, got); diff != "" {
				t.Errorf("CurrentFilters(%q) mismatch (-want +got):\n%s", tc.Search, diff)
			}
		})
	}
}

func TestFiltersToString(t *testing.T) {
	var cases []testFiltersToStringCase
	loadTestData(t, "filters_to_string.yaml", &cases)
	require.NotEmpty(t, cases)

	h := NewHandlers(testPrefixed...)
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, h.FiltersToString(tc.Filters))
		})
	}
}

func TestNegationRoundTrip(t *testing.T) {
	h := NewHandlers()
	filters := h.CurrentFilters("moon status:!(!new,failed disk erasing)")
	assert.Equal(t, "moon status:(!!new,!failed disk erasing)", h.FiltersToString(filters))

	// Rendering the parsed form again is stable.
	again := h.CurrentFilters(h.FiltersToString(filters))
	if diff := diffFilters(filters, again); diff != "" {
		t.Errorf("reparse mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyFilters(t *testing.T) {
	h := NewHandlers()
	a := h.EmptyFilters()
	b := h.EmptyFilters()
	assert.Equal(t, a, b)

	a.Append(FreeTextKey, "moon")
	assert.Empty(t, b.Get(FreeTextKey), "empty filters must not share storage")
	assert.True(t, b.Has(FreeTextKey))
}

func TestToggleFilter(t *testing.T) {
	var cases []testToggleFilterCase
	loadTestData(t, "toggle_filter.yaml", &cases)
	require.NotEmpty(t, cases)

	h := NewHandlers(testPrefixed...)
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			var opts []ToggleOption
			if tc.Exact {
				opts = append(opts, Exact())
			}
			if tc.ShouldExist != nil {
				opts = append(opts, ShouldExist(*tc.ShouldExist))
			}

			before := tc.Filters.Clone()
			got := h.ToggleFilter(tc.Filters, tc.Type, tc.Value, opts...)
			if diff := diffFilters(tc.Want, got); diff != "" {
				t.Errorf("ToggleFilter mismatch (-want +got):\n%s", diff)
			}
			if diff := diffFilters(before, tc.Filters); diff != "" {
				t.Errorf("ToggleFilter modified its argument (-before +after):\n%s", diff)
			}
		})
	}
}

func TestToggleFilterTwiceRestores(t *testing.T) {
	h := NewHandlers()
	start := h.CurrentFilters("moon status:(new)")

	added := h.ToggleFilter(start, "status", "deployed")
	assert.Equal(t, []string{"new", "deployed"}, added.Get("status"))
	restored := h.ToggleFilter(added, "status", "deployed")
	if diff := diffFilters(start, restored); diff != "" {
		t.Errorf("toggle twice mismatch (-want +got):\n%s", diff)
	}

	// A key emptied by toggling is gone, not left with an empty list.
	cleared := h.ToggleFilter(restored, "status", "new")
	assert.False(t, cleared.Has("status"))
}

func TestToggleFilterNumber(t *testing.T) {
	h := NewHandlers()
	got := h.ToggleFilter(h.EmptyFilters(), "cpu", 4, Exact())
	assert.Equal(t, []string{"=4"}, got.Get("cpu"))
	assert.True(t, h.IsFilterActive(got, "cpu", 4, true))

	got = h.ToggleFilter(got, "storage", 1.5)
	assert.Equal(t, []string{"1.5"}, got.Get("storage"))
}

func TestIsFilterActive(t *testing.T) {
	h := NewHandlers(testPrefixed...)
	filters := h.CurrentFilters("moon status:(New,=deployed) workload-team:()")

	tests := []struct {
		name  string
		typ   string
		value any
		exact bool
		want  bool
	}{
		{"present", "status", "new", false, true},
		{"absent", "status", "broken", false, false},
		{"exact present", "status", "Deployed", true, true},
		{"exact absent", "status", "new", true, false},
		{"not exact when stored exact", "status", "deployed", false, false},
		{"unknown type", "zone", "first", false, false},
		{"free text", FreeTextKey, "MOON", false, true},
		{"prefixed by name", "workload_annotations", "team", false, true},
		{"prefixed by key", "workload_annotations", "workload-team", false, true},
		{"prefixed absent", "workload_annotations", "owner", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.IsFilterActive(filters, tt.typ, tt.value, tt.exact))
		})
	}

	assert.False(t, h.IsFilterActive(nil, "status", "new", false))
}

func TestFiltersToQueryString(t *testing.T) {
	h := NewHandlers()

	tests := []struct {
		name    string
		filters Filters
		want    string
	}{
		{
			name:    "empty",
			filters: h.EmptyFilters(),
			want:    "?",
		},
		{
			name: "keeps key order and escapes values",
			filters: Filters{
				{Key: "q", Values: []string{"moon"}},
				{Key: "status", Values: []string{"new", "failed disk erasing"}},
				{Key: "cpu", Values: []string{"=4"}},
			},
			want: "?q=moon&status=new%2Cfailed+disk+erasing&cpu=%3D4",
		},
		{
			name: "drops selected and empty filters",
			filters: Filters{
				{Key: "q", Values: []string{}},
				{Key: "in", Values: []string{"selected"}},
				{Key: "zone", Values: []string{"first"}},
			},
			want: "?zone=first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.FiltersToQueryString(tt.filters))
		})
	}
}

func TestQueryStringToFilters(t *testing.T) {
	h := NewHandlers()

	got := h.QueryStringToFilters("?q=moon&status=new%2Cdeployed&empty=&pool=p1")
	want := Filters{
		{Key: "q", Values: []string{"moon"}},
		{Key: "status", Values: []string{"new", "deployed"}},
		{Key: "pool", Values: []string{"p1"}},
	}
	if diff := diffFilters(want, got); diff != "" {
		t.Errorf("QueryStringToFilters mismatch (-want +got):\n%s", diff)
	}

	// Without a leading "?" and with a repeated parameter.
	got = h.QueryStringToFilters("zone=a&zone=b")
	assert.Equal(t, []string{"b"}, got.Get("zone"))
	assert.True(t, got.Has(FreeTextKey))

	assert.Equal(t, h.EmptyFilters(), h.QueryStringToFilters(""))
}

func TestQueryStringRoundTrip(t *testing.T) {
	h := NewHandlers(testPrefixed...)

	searches := []string{
		"moon",
		"moon status:(new,deployed)",
		"moon status:!(!new,failed disk erasing)",
		"cpu:=4 ram:2048 zone:(first) pool:!p1",
		"mac:aa:bb:cc:dd:ee:ff tags:(a&b,c=d)",
		"release:ubuntu/xenial hostname:!=other",
	}

	for _, search := range searches {
		t.Run(search, func(t *testing.T) {
			filters := h.CurrentFilters(search)
			got := h.QueryStringToFilters(h.FiltersToQueryString(filters))
			if diff := diffFilters(filters, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
