// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"cmp"
	"slices"
	"strings"
)

// sortKey is one field of a --sort spec.
type sortKey struct {
	field      string
	descending bool
	exactCase  bool
}

// parseSortSpec reads "-hostname,!zone" style specs. A leading - sorts
// descending and a leading ! compares strings case sensitively; both may be
// combined in either order.
func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, f := range strings.Split(spec, ",") {
		k := sortKey{field: strings.TrimSpace(f)}
		for {
			if rest, ok := strings.CutPrefix(k.field, "-"); ok {
				k.field, k.descending = rest, true
			} else if rest, ok := strings.CutPrefix(k.field, "!"); ok {
				k.field, k.exactCase = rest, true
			} else {
				break
			}
		}
		if k.field != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// compare orders two row values. Numbers compare numerically, anything else
// by its rendered text.
func (k sortKey) compare(a, b interface{}) int {
	an, aNum := a.(float64)
	bn, bNum := b.(float64)
	if aNum && bNum {
		return cmp.Compare(an, bn)
	}

	as, bs := InterfaceToString(a), InterfaceToString(b)
	if !k.exactCase {
		as, bs = strings.ToLower(as), strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}

// SortDataset orders rows in place by a comma separated list of output
// keys. Rows that tie on every key keep their order.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(resultSet, func(one, two map[string]interface{}) int {
		for _, k := range keys {
			c := k.compare(one[k.field], two[k.field])
			if k.descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}
