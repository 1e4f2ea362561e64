// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package search implements the free-text search language used to filter
// inventory records.
//
// A search string mixes free-text terms with attribute filters:
//
//   - "moon" : free-text term, matched against every attribute of a record
//   - "status:(new,deployed)" : any of the listed values for an attribute
//   - "status:new,deployed" : the same, without parens
//   - "status:!(new,deployed)" : every value in the group is negated
//   - "in:selected" / "in:!selected" : records that are (not) selected
//
// Each value may carry modifiers:
//
//   - !value : negate the match
//   - =value : require an exact (case-insensitive) match
//   - !=value or =!value : both
//   - !!value : double negation, matches like a plain value
//
// Numeric attributes compare as "at least" (cpu:4 matches four or more
// cores) or as equality when exact (cpu:=4).
//
// Prefixed filters declare a namespace of keys such as "workload-team" that
// are toggled as a whole. An empty group ("workload-team:()") or a bare key
// ("workload-team") means the record only needs to carry that key.
//
// Handlers converts between search strings, Filters and URL query strings.
// Items applies Filters to a list of records through an Accessor supplied by
// the caller. Malformed input never produces an error; unparseable groups
// are dropped and terms that cannot be evaluated simply do not match.
package search
