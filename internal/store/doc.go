// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package store keeps an in-memory list of records of one kind and folds
// server push notifications into it. It also remembers the selected and
// active records and memoizes search results until the list or the
// selection changes.
package store
