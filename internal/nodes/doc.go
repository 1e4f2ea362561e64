// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package nodes maps inventory records (machines, controllers and pods) to
// the values the search engine compares. Each record kind declares its
// primary key, its prefixed filters and a set of filter names that don't
// line up with a raw attribute, such as "ram" for a machine's memory or
// "release" for its deployed OS. Any other filter name is looked up as a
// dotted path inside the record.
package nodes
