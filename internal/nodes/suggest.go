// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nodes

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/tidwall/gjson"

	"github.com/tfctl/nodectl/internal/search"
)

// maxSuggestions caps the candidates returned by Suggest.
const maxSuggestions = 3

// filterNames implements fuzzy.Source over candidate filter names.
type filterNames []string

func (f filterNames) String(i int) string {
	return f[i]
}

func (f filterNames) Len() int {
	return len(f)
}

// KnownFilters returns the filter names that mean something for the kind
// given a sample of records: the mapped names, the pseudo-filters and every
// top level attribute seen in the records.
func (k *Kind) KnownFilters(records []gjson.Result) []string {
	seen := map[string]bool{search.FreeTextKey: true, search.SelectedKey: true}
	for name := range k.Mappings {
		seen[name] = true
	}
	for _, record := range records {
		record.ForEach(func(key, _ gjson.Result) bool {
			seen[key.String()] = true
			return true
		})
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// UnknownKeys returns the keys of filters that no record can answer. Keys
// under a prefixed namespace are always known, as are dotted paths whose
// first segment is known.
func (k *Kind) UnknownKeys(filters search.Filters, records []gjson.Result) []string {
	known := k.KnownFilters(records)

	var unknown []string
	for _, key := range filters.Keys() {
		if k.isPrefixedKey(key) {
			continue
		}
		root, _, _ := strings.Cut(key, ".")
		root, _, _ = strings.Cut(root, "[")
		if _, found := slices.BinarySearch(known, root); !found {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// Suggest proposes known filter names close to key, best match first.
func (k *Kind) Suggest(key string, records []gjson.Result) []string {
	candidates := filterNames(k.KnownFilters(records))
	matches := fuzzy.FindFrom(strings.ToLower(key), candidates)

	suggestions := make([]string, 0, maxSuggestions)
	for _, match := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}

func (k *Kind) isPrefixedKey(key string) bool {
	for _, pf := range k.Prefixed {
		if strings.HasPrefix(key, pf.Prefix+"-") {
			return true
		}
	}
	return false
}
