// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Accessor is the seam between the filtering engine and a record schema.
type Accessor[T any] interface {
	// PrimaryKey identifies the record for the selected pseudo-filter.
	PrimaryKey(item T) string
	// Attributes lists the record's own attribute names. Free-text terms are
	// tested against each of them.
	Attributes(item T) []string
	// Value returns a comparable value for attr: a string, a number, a bool,
	// a slice of those, or nil when the record can't be evaluated.
	Value(item T, attr string) any
}

// Items filters records of type T.
type Items[T any] struct {
	*Handlers
	accessor Accessor[T]
}

// NewItems returns an engine reading records through accessor.
func NewItems[T any](accessor Accessor[T], prefixed ...PrefixedFilter) *Items[T] {
	return &Items[T]{
		Handlers: NewHandlers(prefixed...),
		accessor: accessor,
	}
}

// FilterItems returns the items matching search. Each free-text term is a
// separate pass so all of them must match. Every other filter is a single
// pass over all of its values.
func (it *Items[T]) FilterItems(items []T, search string, selected []string) []T {
	if len(items) == 0 || search == "" {
		return items
	}

	filtered := items
	for _, entry := range it.CurrentFilters(search) {
		if len(entry.Values) == 0 {
			continue
		}
		if entry.Key == FreeTextKey {
			for _, term := range entry.Values {
				filtered = it.FilterByTerms(filtered, entry.Key, []string{term}, selected)
			}
			continue
		}
		filtered = it.FilterByTerms(filtered, entry.Key, entry.Values, selected)
	}

	return filtered
}

// FilterByTerms returns the items whose attr matches terms. An item is kept
// when at least one term matched and no negated term matched.
func (it *Items[T]) FilterByTerms(items []T, attr string, terms []string, selected []string) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		switch attr {
		case SelectedKey:
			if it.inSelection(item, terms, selected) {
				result = append(result, item)
			}
		case FreeTextKey:
			if it.matchesAny(item, it.accessor.Attributes(item), terms) {
				result = append(result, item)
			}
		default:
			if it.matchesAny(item, []string{attr}, terms) {
				result = append(result, item)
			}
		}
	}
	return result
}

// inSelection evaluates the selected pseudo-filter. Only the first term
// counts.
func (it *Items[T]) inSelection(item T, terms []string, selected []string) bool {
	if len(terms) == 0 {
		return false
	}
	isSelected := slices.Contains(selected, it.accessor.PrimaryKey(item))
	switch strings.ToLower(terms[0]) {
	case "selected":
		return isSelected
	case "!selected":
		return !isSelected
	default:
		return false
	}
}

func (it *Items[T]) matchesAny(item T, attrs []string, terms []string) bool {
	parsed := make([]Term, len(terms))
	for i, raw := range terms {
		parsed[i] = ParseTerm(raw)
	}

	matched := false
	for _, attr := range attrs {
		value := it.accessor.Value(item, attr)
		if !IsFilterValue(value) {
			continue
		}
		values := scalars(value)
		for _, term := range parsed {
			for _, v := range values {
				if !IsFilterValue(v) {
					continue
				}
				if Matches(v, term) {
					matched = true
				} else if term.Negate {
					// Any element holding a negated term drops the item.
					return false
				}
			}
		}
	}

	return matched
}

// Matches reports whether value satisfies term, honoring negation.
func Matches(value any, term Term) bool {
	result := matchValue(value, term.Value, term.Exact)
	if term.Negate {
		return !result
	}
	return result
}

// matchValue compares one scalar. Numbers compare as "at least" unless
// exact, and the whole term must parse as a number, so "1nam" or "4GB"
// never match. An exact term compared to an integer drops its fraction.
// Strings compare case-insensitively, by containment unless exact.
func matchValue(value any, term string, exact bool) bool {
	if b, ok := value.(bool); ok {
		value = strconv.FormatBool(b)
	}

	if num, integral, ok := toFloat64(value); ok {
		tgt, err := strconv.ParseFloat(strings.TrimSpace(term), 64)
		if err != nil || math.IsNaN(tgt) || math.IsInf(tgt, 0) {
			return false
		}
		if !exact {
			return num >= tgt
		}
		if integral {
			tgt = math.Trunc(tgt)
		}
		return num == tgt
	}

	str, ok := value.(string)
	if !ok {
		return false
	}
	if exact {
		return strings.EqualFold(str, term)
	}
	return strings.Contains(strings.ToLower(str), strings.ToLower(term))
}

// IsFilterValue reports whether value can be evaluated by the engine. Nil,
// empty strings, false and empty slices can't. Zero can.
func IsFilterValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len() > 0
	}
	return true
}

// scalars flattens value into the list of scalars it holds.
func scalars(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{value}
}

// toFloat64 normalizes the numeric types to float64 and reports whether the
// number is integral.
func toFloat64(v any) (float64, bool, bool) {
	switch n := v.(type) {
	case float64:
		return n, n == math.Trunc(n), true
	case float32:
		return float64(n), float64(n) == math.Trunc(float64(n)), true
	case int:
		return float64(n), true, true
	case int8:
		return float64(n), true, true
	case int16:
		return float64(n), true, true
	case int32:
		return float64(n), true, true
	case int64:
		return float64(n), true, true
	case uint:
		return float64(n), true, true
	case uint8:
		return float64(n), true, true
	case uint16:
		return float64(n), true, true
	case uint32:
		return float64(n), true, true
	case uint64:
		return float64(n), true, true
	default:
		return 0, false, false
	}
}
