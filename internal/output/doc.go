// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output turns filtered records into rows shaped by an attrs.AttrList,
// transforms and sorts them, and renders them as a text table, JSON, YAML or
// the raw payload.
package output
