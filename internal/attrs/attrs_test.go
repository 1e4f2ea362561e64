// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package attrs

import (
	_ "embed"
	"strings"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/cases.yaml
var casesYAML []byte

// cases mirrors testdata/cases.yaml, one list per function under test.
type cases struct {
	Set []struct {
		Name      string `yaml:"name"`
		Initial   []Attr `yaml:"initial"`
		Value     string `yaml:"value"`
		WantLen   int    `yaml:"wantLen"`
		WantAttrs []Attr `yaml:"wantAttrs"`
		WantErr   bool   `yaml:"wantErr"`
	} `yaml:"set"`
	Global []struct {
		Name      string   `yaml:"name"`
		Initial   []Attr   `yaml:"initial"`
		WantSpecs []string `yaml:"wantSpecs"`
	} `yaml:"global"`
	Transform []struct {
		Name          string `yaml:"name"`
		TransformSpec string `yaml:"transformSpec"`
		Input         any    `yaml:"input"`
		Want          any    `yaml:"want"`
	} `yaml:"transform"`
	String []struct {
		Name     string `yaml:"name"`
		AttrList []Attr `yaml:"attrList"`
		Want     string `yaml:"want"`
	} `yaml:"string"`
}

func loadCases(t *testing.T) cases {
	t.Helper()
	var c cases
	require.NoError(t, yaml.Unmarshal(casesYAML, &c))
	require.NotEmpty(t, c.Set)
	return c
}

func TestSet(t *testing.T) {
	for _, tt := range loadCases(t).Set {
		t.Run(tt.Name, func(t *testing.T) {
			a := AttrList(tt.Initial)
			err := a.Set(tt.Value)
			if tt.WantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, a, tt.WantLen)
			if tt.WantAttrs != nil {
				if diff := cmp.Diff(AttrList(tt.WantAttrs), a); diff != "" {
					t.Errorf("attrs mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestSetGlobalTransformSpec(t *testing.T) {
	for _, tt := range loadCases(t).Global {
		t.Run(tt.Name, func(t *testing.T) {
			a := AttrList(tt.Initial)
			require.NoError(t, a.SetGlobalTransformSpec())

			got := make([]string, 0, len(a))
			for _, attr := range a {
				got = append(got, attr.TransformSpec)
			}
			assert.Equal(t, tt.WantSpecs, got)
		})
	}
}

func TestTransform(t *testing.T) {
	for _, tt := range loadCases(t).Transform {
		t.Run(tt.Name, func(t *testing.T) {
			attr := Attr{TransformSpec: tt.TransformSpec}
			assert.Equal(t, tt.Want, attr.Transform(tt.Input))
		})
	}
}

func TestTransformTime(t *testing.T) {
	const input = "2024-01-15T10:00:00Z"
	parsed, err := time.Parse(time.RFC3339, input)
	require.NoError(t, err)
	local := parsed.In(time.Local)

	tests := []struct {
		spec string
		want any
	}{
		{"t", local.Format("2006-01-02T15:04:05MST")},
		{"T", humanize.Time(local)},
		{"t,U", strings.ToUpper(local.Format("2006-01-02T15:04:05MST"))},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			attr := Attr{TransformSpec: tt.spec}
			assert.Equal(t, tt.want, attr.Transform(input))
		})
	}

	bad := Attr{TransformSpec: "t"}
	assert.Equal(t, "yesterday", bad.Transform("yesterday"))
}

func TestString(t *testing.T) {
	for _, tt := range loadCases(t).String {
		t.Run(tt.Name, func(t *testing.T) {
			a := AttrList(tt.AttrList)
			assert.Equal(t, tt.Want, a.String())
			assert.Equal(t, "list", a.Type())
		})
	}
}

func TestIncludedAndLookup(t *testing.T) {
	var a AttrList
	require.NoError(t, a.Set("system_id,!status_code,memory:ram:m"))

	included := a.Included()
	require.Len(t, included, 2)
	assert.Equal(t, "system_id", included[0].OutputKey)
	assert.Equal(t, "ram", included[1].OutputKey)

	ram, ok := a.Lookup("ram")
	assert.True(t, ok)
	assert.Equal(t, "memory", ram.Key)

	_, ok = a.Lookup("memory")
	assert.False(t, ok)
}
