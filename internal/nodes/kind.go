// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nodes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/nodectl/internal/driller"
	"github.com/tfctl/nodectl/internal/search"
)

// Mapper derives the comparable value of a filter name from a record.
type Mapper func(a *Accessor, record gjson.Result) any

// Kind describes one type of inventory record.
type Kind struct {
	// Name is the canonical kind name used on the command line.
	Name string
	// Aliases are accepted in place of Name.
	Aliases []string
	// PrimaryKey is the attribute identifying a record.
	PrimaryKey string
	// Prefixed lists the namespaced existence filters.
	Prefixed []search.PrefixedFilter
	// Columns is the default --attrs spec for listings.
	Columns []string
	// Mappings translates filter names that aren't plain attribute paths.
	Mappings map[string]Mapper
	// FetchKeys translates filter names to server-side parameter names.
	FetchKeys map[string]string
}

// kinds is the registry, in help order.
var kinds = []*Kind{Machine, Controller, Pod}

// Kinds returns the registered kinds.
func Kinds() []*Kind {
	return slices.Clone(kinds)
}

// Names returns the canonical names of the registered kinds.
func Names() []string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Name)
	}
	return names
}

// Lookup finds a kind by name or alias, ignoring case.
func Lookup(name string) (*Kind, error) {
	for _, k := range kinds {
		if strings.EqualFold(k.Name, name) {
			return k, nil
		}
		for _, alias := range k.Aliases {
			if strings.EqualFold(alias, name) {
				return k, nil
			}
		}
	}
	return nil, fmt.Errorf("unknown kind %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// WithPrefixed returns a copy of the kind with extra prefixed filters, such
// as those declared in the config file. Duplicates are ignored.
func (k *Kind) WithPrefixed(extra ...search.PrefixedFilter) *Kind {
	clone := *k
	clone.Prefixed = slices.Clone(k.Prefixed)
	for _, pf := range extra {
		if !slices.Contains(clone.Prefixed, pf) {
			clone.Prefixed = append(clone.Prefixed, pf)
		}
	}
	return &clone
}

// FilterNames returns the mapped filter names, sorted.
func (k *Kind) FilterNames() []string {
	names := make([]string, 0, len(k.Mappings))
	for name := range k.Mappings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Filter is a shorthand for NewAccessor(opts...).Engine().FilterItems.
func (k *Kind) Filter(records []gjson.Result, terms string, selected []string, opts ...AccessorOption) []gjson.Result {
	return k.NewAccessor(opts...).Engine().FilterItems(records, terms, selected)
}

// Accessor reads records of one kind for the search engine.
type Accessor struct {
	kind *Kind
	tags map[string]string
}

// AccessorOption tunes an Accessor.
type AccessorOption func(*Accessor)

// WithTags resolves numeric tag references through tag records carrying
// id and name attributes.
func WithTags(tags []gjson.Result) AccessorOption {
	return func(a *Accessor) {
		if a.tags == nil {
			a.tags = make(map[string]string, len(tags))
		}
		for _, tag := range tags {
			a.tags[tag.Get("id").String()] = tag.Get("name").String()
		}
	}
}

// NewAccessor returns an accessor for the kind.
func (k *Kind) NewAccessor(opts ...AccessorOption) *Accessor {
	a := &Accessor{kind: k}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Kind returns the kind read by the accessor.
func (a *Accessor) Kind() *Kind {
	return a.kind
}

// Engine returns a search engine reading records through the accessor.
func (a *Accessor) Engine() *search.Items[gjson.Result] {
	return search.NewItems[gjson.Result](a, a.kind.Prefixed...)
}

// PrimaryKey implements search.Accessor.
func (a *Accessor) PrimaryKey(record gjson.Result) string {
	return record.Get(gjson.Escape(a.kind.PrimaryKey)).String()
}

// Attributes implements search.Accessor. It returns the record's own keys.
func (a *Accessor) Attributes(record gjson.Result) []string {
	var keys []string
	record.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Value implements search.Accessor.
func (a *Accessor) Value(record gjson.Result, attr string) any {
	if mapper, ok := a.kind.Mappings[attr]; ok {
		return mapper(a, record)
	}

	for _, pf := range a.kind.Prefixed {
		if name, ok := strings.CutPrefix(attr, pf.Prefix+"-"); ok {
			return Plain(record.Get(gjson.Escape(pf.Filter)).Get(gjson.Escape(name)))
		}
	}

	return Plain(driller.Drill(record, attr))
}

// Plain converts a gjson result to the Go value the engine compares. A
// missing attribute or JSON null is nil.
func Plain(res gjson.Result) any {
	if !res.Exists() || res.Type == gjson.Null {
		return nil
	}
	return res.Value()
}

// path returns a Mapper reading a dotted attribute path.
func path(p string) Mapper {
	return func(_ *Accessor, record gjson.Result) any {
		return Plain(driller.Drill(record, p))
	}
}

// collect returns a Mapper gathering the values at several paths into one
// list. Arrays are flattened and empty values dropped.
func collect(paths ...string) Mapper {
	return func(_ *Accessor, record gjson.Result) any {
		var values []any
		for _, p := range paths {
			res := record.Get(p)
			if res.IsArray() {
				for _, item := range res.Array() {
					if v := Plain(item); search.IsFilterValue(v) {
						values = append(values, v)
					}
				}
				continue
			}
			if v := Plain(res); search.IsFilterValue(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return nil
		}
		return values
	}
}

// tagNames resolves the tag references of a record. Unknown references are
// kept as they are.
func tagNames(a *Accessor, record gjson.Result) any {
	res := record.Get("tags")
	if !res.IsArray() {
		return Plain(res)
	}
	values := make([]any, 0, len(res.Array()))
	for _, item := range res.Array() {
		if name, ok := a.tags[item.String()]; ok && item.Type == gjson.Number {
			values = append(values, name)
			continue
		}
		values = append(values, Plain(item))
	}
	return values
}

// statusLabel prefers the record's status text and falls back to the label
// of its status_code.
func statusLabel(_ *Accessor, record gjson.Result) any {
	if status := record.Get("status"); status.Exists() && status.Type == gjson.String {
		return status.String()
	}
	if code := record.Get("status_code"); code.Type == gjson.Number {
		return StatusCode(code.Int()).String()
	}
	return nil
}
