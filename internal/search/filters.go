// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package search

import "slices"

// FreeTextKey holds free-text terms. It was chosen because it doesn't clash
// with any record attribute and it is also the URL query parameter name.
const FreeTextKey = "q"

// SelectedKey is the pseudo-filter for selected records. It is never
// persisted to a query string.
const SelectedKey = "in"

// Filter is one attribute of a parsed search and its values in the order
// they were given. Values keep their !/= modifiers.
type Filter struct {
	Key    string   `yaml:"key" json:"key"`
	Values []string `yaml:"values" json:"values"`
}

// Filters is an ordered set of Filter entries with unique keys. Order is the
// order in which keys were first seen.
type Filters []Filter

// Get returns the values for key, or nil if the key is absent.
func (f Filters) Get(key string) []string {
	if i := f.index(key); i >= 0 {
		return f[i].Values
	}
	return nil
}

// Has reports whether key is present, even with no values.
func (f Filters) Has(key string) bool {
	return f.index(key) >= 0
}

// Keys returns the keys in order.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for _, entry := range f {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Set replaces the values of key, keeping its position, or appends a new
// entry.
func (f *Filters) Set(key string, values []string) {
	if i := f.index(key); i >= 0 {
		(*f)[i].Values = values
		return
	}
	*f = append(*f, Filter{Key: key, Values: values})
}

// Append adds values to key, creating the entry when needed.
func (f *Filters) Append(key string, values ...string) {
	if i := f.index(key); i >= 0 {
		(*f)[i].Values = append((*f)[i].Values, values...)
		return
	}
	*f = append(*f, Filter{Key: key, Values: append([]string{}, values...)})
}

// Delete removes key.
func (f *Filters) Delete(key string) {
	if i := f.index(key); i >= 0 {
		*f = slices.Delete(*f, i, i+1)
	}
}

// Clone returns a deep copy.
func (f Filters) Clone() Filters {
	if f == nil {
		return nil
	}
	out := make(Filters, len(f))
	for i, entry := range f {
		out[i] = Filter{Key: entry.Key, Values: append([]string{}, entry.Values...)}
	}
	return out
}

// Map returns the filters as a plain map. Order is lost.
func (f Filters) Map() map[string][]string {
	m := make(map[string][]string, len(f))
	for _, entry := range f {
		m[entry.Key] = entry.Values
	}
	return m
}

func (f Filters) index(key string) int {
	return slices.IndexFunc(f, func(entry Filter) bool { return entry.Key == key })
}
