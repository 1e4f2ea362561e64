// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package nodes

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/nodectl/internal/search"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// testFilterCase represents a single test case for the mapping tests.
type testFilterCase struct {
	Name     string                   `yaml:"name"`
	Kind     string                   `yaml:"kind"`
	Search   string                   `yaml:"search"`
	Selected []string                 `yaml:"selected"`
	Records  []map[string]interface{} `yaml:"records"`
	Want     []int                    `yaml:"want"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(t *testing.T, filename string, v interface{}) {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + filename)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, v))
}

// toRecords converts YAML maps to parsed JSON records.
func toRecords(t *testing.T, maps []map[string]interface{}) []gjson.Result {
	t.Helper()
	records := make([]gjson.Result, 0, len(maps))
	for _, m := range maps {
		b, err := json.Marshal(m)
		require.NoError(t, err)
		records = append(records, gjson.ParseBytes(b))
	}
	return records
}

// testTags are the tag records used to resolve numeric tag references.
var testTags = []gjson.Result{
	gjson.Parse(`{"id": 1, "name": "virtual"}`),
	gjson.Parse(`{"id": 2, "name": "physical"}`),
}

func runFilterCases(t *testing.T, filename string, defaultKind *Kind) {
	var cases []testFilterCase
	loadTestData(t, filename, &cases)
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			kind := defaultKind
			if tc.Kind != "" {
				var err error
				kind, err = Lookup(tc.Kind)
				require.NoError(t, err)
			}

			records := toRecords(t, tc.Records)
			got := kind.Filter(records, tc.Search, tc.Selected, WithTags(testTags))

			gotIDs := make([]string, 0, len(got))
			accessor := kind.NewAccessor()
			for _, r := range got {
				gotIDs = append(gotIDs, accessor.PrimaryKey(r))
			}
			wantIDs := make([]string, 0, len(tc.Want))
			for _, i := range tc.Want {
				wantIDs = append(wantIDs, accessor.PrimaryKey(records[i]))
			}
			assert.Equal(t, wantIDs, gotIDs, "search %q", tc.Search)
		})
	}
}

func TestMachineFilters(t *testing.T) {
	runFilterCases(t, "machine_filters.yaml", Machine)
}

func TestOtherFilters(t *testing.T) {
	runFilterCases(t, "other_filters.yaml", Machine)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want *Kind
	}{
		{"machine", Machine},
		{"Machines", Machine},
		{"m", Machine},
		{"controller", Controller},
		{"pod", Pod},
		{"vmhost", Pod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.name)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}

	_, err := Lookup("device")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "machine, controller, pod")
}

func TestWithPrefixed(t *testing.T) {
	extra := search.PrefixedFilter{Filter: "owner_data", Prefix: "owner"}
	k := Machine.WithPrefixed(extra, Machine.Prefixed[0])

	assert.Len(t, k.Prefixed, 2)
	assert.Len(t, Machine.Prefixed, 1, "the registered kind is not modified")

	records := toRecords(t, []map[string]interface{}{
		{"system_id": "a", "owner_data": map[string]interface{}{"rack": "r1"}},
		{"system_id": "b"},
	})
	got := k.Filter(records, "owner-rack:(r1)", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Get("system_id").String())
}

func TestAccessorValue(t *testing.T) {
	record := gjson.Parse(`{
		"system_id": "abc",
		"hostname": "moon",
		"status_code": 6,
		"osystem": "ubuntu",
		"distro_series": "jammy",
		"cpu_count": 0,
		"owner": null,
		"pxe_mac": "00:11",
		"extra_macs": ["22:33", ""],
		"tags": [1, "loose", 9]
	}`)
	a := Machine.NewAccessor(WithTags(testTags))

	assert.Equal(t, "abc", a.PrimaryKey(record))
	assert.Equal(t, "ubuntu/jammy", a.Value(record, "release"))
	assert.Equal(t, 0.0, a.Value(record, "cpu"))
	assert.Nil(t, a.Value(record, "owner"))
	assert.Nil(t, a.Value(record, "missing"))
	assert.Equal(t, []any{"00:11", "22:33"}, a.Value(record, "mac"))
	assert.Equal(t, []any{"virtual", "loose", 9.0}, a.Value(record, "tags"))
	assert.Equal(t, "Deployed", a.Value(record, "status"))
	assert.Equal(t, []string{
		"system_id", "hostname", "status_code", "osystem", "distro_series",
		"cpu_count", "owner", "pxe_mac", "extra_macs", "tags",
	}, a.Attributes(record))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "New", StatusNew.String())
	assert.Equal(t, "Failed commissioning", StatusFailedCommissioning.String())
	assert.Equal(t, "Releasing failed", StatusFailedReleasing.String())
	assert.Equal(t, "Failed testing", StatusFailedTesting.String())
	assert.Equal(t, "99", StatusCode(99).String())
	assert.Equal(t, StatusCode(22), StatusFailedTesting)

	assert.True(t, StatusDeployed.Deployed())
	assert.True(t, StatusDeploying.Deployed())
	assert.False(t, StatusReserved.Deployed())
}

func TestSuggest(t *testing.T) {
	records := toRecords(t, []map[string]interface{}{
		{"system_id": "a", "hostname": "moon", "owner": "admin"},
	})

	assert.Equal(t, "status", Machine.Suggest("stat", records)[0])
	assert.Contains(t, Machine.Suggest("hstnm", records), "hostname")
	assert.LessOrEqual(t, len(Machine.Suggest("o", records)), maxSuggestions)
	assert.Empty(t, Machine.Suggest("zzzz", records))
}

func TestUnknownKeys(t *testing.T) {
	records := toRecords(t, []map[string]interface{}{
		{"system_id": "a", "hostname": "moon", "hardware_info": map[string]interface{}{"cpu_model": "x"}},
	})
	h := search.NewHandlers(Machine.Prefixed...)
	filters := h.CurrentFilters("moon hostnme:moon ram:2 workload-team hardware_info.cpu_model:x in:selected")

	assert.Equal(t, []string{"hostnme"}, Machine.UnknownKeys(filters, records))
}

func TestFetchFilters(t *testing.T) {
	h := search.NewHandlers(Machine.Prefixed...)
	filters := h.CurrentFilters("moon !sun status:(new,!=broken) ram:=2048 owner:admin " +
		"workload-team:(storage) colour:blue in:selected")

	got := Machine.FetchFilters(filters)
	want := search.Filters{
		{Key: FreeTextParam, Values: []string{"moon"}},
		{Key: "status", Values: []string{"new"}},
		{Key: "not_status", Values: []string{"=broken"}},
		{Key: "mem", Values: []string{"=2048"}},
		{Key: "owner", Values: []string{"admin"}},
		{Key: "workloads", Values: []string{"team:storage"}},
	}
	assert.Equal(t, want, got)

	assert.Equal(t,
		"?free_text=moon&status=new&not_status=%3Dbroken&mem=%3D2048&owner=admin&workloads=team%3Astorage",
		h.FiltersToQueryString(got))
}
