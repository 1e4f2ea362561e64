// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/nodectl/internal/log"
)

// lengthRegex finds length transforms such as "12" or "-20" in a spec.
var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one column of output: where its value comes from, what it is
// called and how it is rendered.
type Attr struct {
	// Key is the dotted record path, e.g. "zone.name".
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs that only exist to drive --sort.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the value in json/yaml output and titles the column
	// in text output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is a run of transform letters and lengths, e.g. "u,12".
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform renders value per the attr's spec.
//
// Numbers take b (bytes), m (MiB) or c (thousands separators). Strings take
// t/T (local time or time ago), l/u (case) and a length, where a negative
// length elides the middle. When a spec repeats a case or a length, the
// last one wins, so "*::U,hostname::l" lowers hostnames.
func (a *Attr) Transform(value interface{}) interface{} {
	spec := a.TransformSpec

	if num, ok := value.(float64); ok {
		value = formatNumber(num, spec)
	}
	s, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	if strings.ContainsAny(spec, "tT") {
		s = formatTime(s, strings.Contains(spec, "T"))
	}
	s = applyCase(s, spec)
	return applyLength(s, spec)
}

func formatNumber(num float64, spec string) interface{} {
	switch {
	case strings.Contains(spec, "b") && num >= 0:
		return humanize.IBytes(uint64(num))
	case strings.Contains(spec, "m") && num >= 0:
		return humanize.IBytes(uint64(num * 1024 * 1024))
	case strings.Contains(spec, "c"):
		return humanize.CommafWithDigits(num, 2)
	}
	return num
}

// formatTime turns an RFC 3339 timestamp into local time or, with ago, a
// relative phrase. Anything else is returned as is.
func formatTime(s string, ago bool) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	local := t.In(time.Local)
	if ago {
		return humanize.Time(local)
	}
	return local.Format("2006-01-02T15:04:05MST")
}

func applyCase(s, spec string) string {
	lower := strings.LastIndexAny(spec, "lL")
	upper := strings.LastIndexAny(spec, "uU")
	switch {
	case lower > upper:
		return strings.ToLower(s)
	case upper > lower:
		return strings.ToUpper(s)
	}
	return s
}

// applyLength truncates to n, or for -n keeps both ends around "..".
func applyLength(s, spec string) string {
	lengths := lengthRegex.FindAllString(spec, -1)
	if len(lengths) == 0 {
		return s
	}
	n, _ := strconv.Atoi(lengths[len(lengths)-1])
	width := int(math.Abs(float64(n)))
	if width == 0 || len(s) <= width {
		return s
	}
	if n > 0 {
		return s[:n]
	}
	keep := max(width/2-1, 1)
	return s[:keep] + ".." + s[len(s)-keep:]
}

// AttrList is the ordered set of attrs shaping output. It implements
// flag.Value for --attrs.
type AttrList []Attr

// parseSpec reads one "[!]path[:output[:transform]]" spec. The output key
// defaults to the last path segment and a leading . on the path is dropped.
// A "*" key carries the global transform and is never output.
func parseSpec(spec string) (Attr, error) {
	key, rest, _ := strings.Cut(spec, ":")
	output, transform, _ := strings.Cut(rest, ":")

	attr := Attr{Include: true}
	key = strings.TrimSpace(key)
	if hidden, ok := strings.CutPrefix(key, "!"); ok {
		attr.Include = false
		key = hidden
	}
	attr.Key = strings.TrimPrefix(key, ".")
	if attr.Key == "" {
		return Attr{}, fmt.Errorf("empty attribute in %q", spec)
	}
	if attr.Key == "*" {
		attr.Include = false
	}

	attr.OutputKey = strings.TrimSpace(output)
	if attr.OutputKey == "" {
		attr.OutputKey = attr.Key[strings.LastIndex(attr.Key, ".")+1:]
	}
	attr.TransformSpec = strings.TrimSpace(transform)
	return attr, nil
}

// Set adds each comma separated spec to the list. A spec naming an attr
// already present, by key or output key, replaces it in place.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		attr, err := parseSpec(spec)
		if err != nil {
			return err
		}
		log.Tracef("attr parsed: %+v", attr)

		i := slices.IndexFunc(*a, func(have Attr) bool {
			return have.Key == attr.Key || have.OutputKey == attr.Key
		})
		if i < 0 {
			*a = append(*a, attr)
			continue
		}
		(*a)[i].Include = attr.Include
		(*a)[i].OutputKey = attr.OutputKey
		(*a)[i].TransformSpec = attr.TransformSpec
	}
	return nil
}

// SetGlobalTransformSpec prefixes every attr's spec with the spec of the
// "*" attr, if there is one.
func (a *AttrList) SetGlobalTransformSpec() error {
	i := slices.IndexFunc(*a, func(attr Attr) bool { return attr.Key == "*" })
	if i < 0 || (*a)[i].TransformSpec == "" {
		return nil
	}
	global := (*a)[i].TransformSpec
	log.Debugf("global spec: spec=%s", global)

	for j := range *a {
		(*a)[j].TransformSpec = global + "," + (*a)[j].TransformSpec
	}
	return nil
}

// Included returns only the attributes that are written to the output.
func (a AttrList) Included() AttrList {
	var out AttrList
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// Lookup finds an attribute by its output key.
func (a AttrList) Lookup(outputKey string) (Attr, bool) {
	for _, attr := range a {
		if attr.OutputKey == outputKey {
			return attr, true
		}
	}
	return Attr{}, false
}

// String renders the list back in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type names the flag value type.
func (a *AttrList) Type() string { return "list" }
