// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// groupRegex matches either a parenthesized filter group such as
// "status:(new,deployed)" or "status:!(new)", or a bare token such as "moon",
// "!moon" or "status:new,deployed". Leftmost-first alternation means the
// parenthesized form wins when both could match at the same offset.
var groupRegex = regexp.MustCompile(`(\b[\w-]+:!*\([^)]+\))|(!*\w+\S*)`)

// valuesRegex picks the first run of characters between the parens.
var valuesRegex = regexp.MustCompile(`[^(|^)]+`)

// PrefixedFilter declares a namespace of existence filters. Toggling Filter
// with a value v adds or removes the key "Prefix-v".
type PrefixedFilter struct {
	Filter string `yaml:"filter" json:"filter"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// Handlers converts between search strings, Filters and URL query strings.
// The zero value is usable and has no prefixed filters.
type Handlers struct {
	prefixed []PrefixedFilter
}

// NewHandlers returns Handlers aware of the given prefixed filters.
func NewHandlers(prefixed ...PrefixedFilter) *Handlers {
	return &Handlers{prefixed: slices.Clone(prefixed)}
}

// Prefixed returns the declared prefixed filters.
func (h *Handlers) Prefixed() []PrefixedFilter {
	return slices.Clone(h.prefixed)
}

// EmptyFilters returns a new Filters holding only an empty free-text entry.
// Every call returns a distinct value.
func (h *Handlers) EmptyFilters() Filters {
	return Filters{{Key: FreeTextKey, Values: []string{}}}
}

// CurrentFilters parses a search string. Malformed groups are dropped and
// a repeated key replaces the values of the earlier occurrence.
func (h *Handlers) CurrentFilters(search string) Filters {
	filters := h.EmptyFilters()
	if search == "" {
		return filters
	}

	for _, group := range groupRegex.FindAllString(search, -1) {
		name, values, hasValues := splitGroup(group)

		switch {
		case hasValues:
			h.parseGroupValues(&filters, name, values)
		case !strings.Contains(group, ":") && h.isPrefixedKey(group):
			// A bare prefixed key such as "workload-team" matches any record
			// carrying that key.
			filters.Set(group, []string{""})
		case !strings.Contains(group, ":"):
			filters.Append(FreeTextKey, name)
		default:
			log.Debugf("dropping filter without values: %s", group)
		}
	}

	return filters
}

// parseGroupValues handles the part of a group after the colon.
func (h *Handlers) parseGroupValues(filters *Filters, name, values string) {
	allNegated := strings.HasPrefix(values, "!(")
	if allNegated {
		values = values[1:]
	} else if strings.HasPrefix(values, "!!(") {
		values = values[2:]
	}

	// Parens must be balanced or absent.
	if strings.HasPrefix(values, "(") != strings.HasSuffix(values, ")") {
		log.Debugf("dropping unbalanced filter: %s:%s", name, values)
		return
	}

	clean := valuesRegex.FindString(values)
	if clean == "" {
		// Empty parens only mean something for prefixed keys, where they
		// match any record carrying the key.
		if h.isPrefixedKey(name) {
			filters.Set(name, []string{""})
		} else {
			log.Debugf("dropping empty filter: %s", name)
		}
		return
	}

	list := strings.Split(clean, ",")
	if allNegated {
		for i := range list {
			list[i] = "!" + list[i]
		}
	}
	filters.Set(name, list)
}

// FiltersToString renders filters as a search string. Free-text terms come
// first, then each non-empty filter as "key:(v1,v2)".
func (h *Handlers) FiltersToString(filters Filters) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(filters.Get(FreeTextKey), " "))
	for _, entry := range filters {
		if entry.Key == FreeTextKey || len(entry.Values) == 0 {
			continue
		}
		fmt.Fprintf(&sb, " %s:(%s)", entry.Key, strings.Join(entry.Values, ","))
	}
	return strings.TrimSpace(sb.String())
}

// IsFilterActive reports whether value is set for the filter typ. For a
// prefixed filter type only the existence of the composite key is checked.
func (h *Handlers) IsFilterActive(filters Filters, typ string, value any, exact bool) bool {
	if filters == nil {
		return false
	}

	str := FormatValue(value)
	if pf, ok := h.prefixedFilter(typ); ok {
		return filters.Has(pf.key(str))
	}

	if !filters.Has(typ) {
		return false
	}
	if exact {
		str = "=" + str
	}
	return valueIndex(filters, typ, str) != -1
}

// ToggleOption tunes ToggleFilter.
type ToggleOption func(*toggleOptions)

type toggleOptions struct {
	exact       bool
	shouldExist *bool
}

// Exact toggles the "=" form of the value.
func Exact() ToggleOption {
	return func(o *toggleOptions) {
		o.exact = true
	}
}

// ShouldExist forces the outcome instead of flipping it. When the value is
// already in the wanted state nothing changes.
func ShouldExist(exist bool) ToggleOption {
	return func(o *toggleOptions) {
		o.shouldExist = &exist
	}
}

// ToggleFilter adds value to the filter typ when absent and removes it when
// present, deleting the key once its list is empty. The argument is never
// modified; the updated copy is returned.
func (h *Handlers) ToggleFilter(filters Filters, typ string, value any, opts ...ToggleOption) Filters {
	options := toggleOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	result := filters.Clone()

	if str, ok := value.(string); ok {
		if pf, ok := h.prefixedFilter(typ); ok {
			return togglePrefixed(result, pf.key(str), options.shouldExist)
		}
	}

	str := FormatValue(value)
	if options.exact {
		str = "=" + str
	}

	idx := valueIndex(result, typ, str)
	exists := idx != -1

	switch {
	case !exists && (options.shouldExist == nil || *options.shouldExist):
		result.Append(typ, str)
	case exists && (options.shouldExist == nil || !*options.shouldExist):
		values := slices.Delete(result.Get(typ), idx, idx+1)
		if len(values) == 0 {
			result.Delete(typ)
		} else {
			result.Set(typ, values)
		}
	}

	return result
}

func togglePrefixed(filters Filters, key string, shouldExist *bool) Filters {
	exists := filters.Has(key)
	want := !exists
	if shouldExist != nil {
		want = *shouldExist
	}

	switch {
	case !exists && want:
		filters.Append(key, "")
	case exists && !want:
		filters.Delete(key)
	}
	return filters
}

// QueryStringToFilters parses a URL query string such as
// "?q=moon&status=new,deployed". Parameters without a value are skipped.
func (h *Handlers) QueryStringToFilters(query string) Filters {
	filters := h.EmptyFilters()
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return filters
	}

	for _, param := range strings.Split(query, "&") {
		if param == "" {
			continue
		}
		name, values, _ := strings.Cut(param, "=")
		name = unescape(name)
		values = unescape(values)
		if values == "" {
			continue
		}
		filters.Set(name, strings.Split(values, ","))
	}

	return filters
}

// FiltersToQueryString renders filters as a URL query string, keeping key
// order. Empty filters and the selected pseudo-filter are left out.
func (h *Handlers) FiltersToQueryString(filters Filters) string {
	params := make([]string, 0, len(filters))
	for _, entry := range filters {
		if len(entry.Values) == 0 || entry.Key == SelectedKey {
			continue
		}
		params = append(params,
			url.QueryEscape(entry.Key)+"="+url.QueryEscape(strings.Join(entry.Values, ",")))
	}
	return "?" + strings.Join(params, "&")
}

// FormatValue renders a filter value the way it is stored in Filters.
func FormatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (h *Handlers) prefixedFilter(typ string) (PrefixedFilter, bool) {
	for _, pf := range h.prefixed {
		if pf.Filter == typ {
			return pf, true
		}
	}
	return PrefixedFilter{}, false
}

func (h *Handlers) isPrefixedKey(key string) bool {
	for _, pf := range h.prefixed {
		if strings.HasPrefix(key, pf.Prefix+"-") {
			return true
		}
	}
	return false
}

// key returns the composite key for value, which may already carry the
// prefix.
func (pf PrefixedFilter) key(value string) string {
	if strings.HasPrefix(value, pf.Prefix+"-") {
		return value
	}
	return pf.Prefix + "-" + value
}

// splitGroup splits a token at its first colon, but only when something
// follows the colon.
func splitGroup(group string) (name, values string, ok bool) {
	name, values, found := strings.Cut(group, ":")
	if !found || values == "" {
		return group, "", false
	}
	return name, values, true
}

// valueIndex finds value in the filter typ, ignoring case.
func valueIndex(filters Filters, typ, value string) int {
	return slices.IndexFunc(filters.Get(typ), func(v string) bool {
		return strings.EqualFold(v, value)
	})
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
