// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package driller

import (
	_ "embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/driller_cases.yaml
var casesYAML []byte

func TestDrill(t *testing.T) {
	var cases []struct {
		Name        string         `yaml:"name"`
		JSON        map[string]any `yaml:"json"`
		Path        string         `yaml:"path"`
		ExpectedStr string         `yaml:"expectedStr"`
		IsNil       bool           `yaml:"isNil"`
		IsArray     bool           `yaml:"isArray"`
	}
	require.NoError(t, yaml.Unmarshal(casesYAML, &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			raw, err := json.Marshal(tc.JSON)
			require.NoError(t, err)

			got := Drill(gjson.ParseBytes(raw), tc.Path)
			switch {
			case tc.IsNil:
				assert.False(t, got.Exists(), "got %v", got.Value())
			case tc.IsArray:
				assert.True(t, got.IsArray(), "got %v", got.Value())
			default:
				require.True(t, got.Exists(), "no value at %s", tc.Path)
				assert.Equal(t, tc.ExpectedStr, got.String())
			}
		})
	}
}

func TestParse(t *testing.T) {
	steps, ok := parse("a.b[2].c[*].d[]")
	require.True(t, ok)
	assert.Equal(t, []step{
		{key: "a", index: -1},
		{key: "b", index: 2},
		{key: "c", index: -1, spread: true},
		{key: "d", index: -1},
	}, steps)

	for _, bad := range []string{"", "a..b", "a[x]", "a.b c"} {
		_, ok := parse(bad)
		assert.False(t, ok, bad)
	}
}
