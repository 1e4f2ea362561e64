// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package browse is an interactive search box over a record store. Every
// keystroke re-runs the store's search, tab toggles the record under the
// cursor in and out of the selection (so "in:selected" can be used while
// typing) and enter makes it the active record.
package browse
