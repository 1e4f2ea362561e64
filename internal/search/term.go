// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package search

import "strings"

// Term is a filter value with its modifiers decoded.
type Term struct {
	Value  string `yaml:"value" json:"value"`
	Exact  bool   `yaml:"exact" json:"exact"`
	Negate bool   `yaml:"negate" json:"negate"`
}

// ParseTerm decodes the leading modifiers of a raw filter value. Only the
// first two characters are inspected. "!!" cancels out so that a value
// negated twice (e.g. "tags:!(!first)") matches like the plain value.
func ParseTerm(raw string) Term {
	switch {
	case strings.HasPrefix(raw, "!!"):
		return Term{Value: raw[2:]}
	case strings.HasPrefix(raw, "!="), strings.HasPrefix(raw, "=!"):
		return Term{Value: raw[2:], Exact: true, Negate: true}
	case strings.HasPrefix(raw, "!"):
		return Term{Value: raw[1:], Negate: true}
	case strings.HasPrefix(raw, "="):
		return Term{Value: raw[1:], Exact: true}
	default:
		return Term{Value: raw}
	}
}

// String encodes the term back into its raw form.
func (t Term) String() string {
	switch {
	case t.Negate && t.Exact:
		return "!=" + t.Value
	case t.Negate:
		return "!" + t.Value
	case t.Exact:
		return "=" + t.Value
	case strings.HasPrefix(t.Value, "!") || strings.HasPrefix(t.Value, "="):
		// Escape so the value isn't read back as a modifier.
		return "!!" + t.Value
	default:
		return t.Value
	}
}
