// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ compares two snapshots of an inventory. Records are paired
// by primary key so reordering is not a change.
package differ
