// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller walks inventory records with dotted attribute paths such
// as "pod.name", "interfaces[1].mac" or "tags[*]".
package driller
