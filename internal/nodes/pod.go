// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nodes

// Pod records (VM hosts) are keyed by id. Resource filters compare against
// the host's totals.
var Pod = &Kind{
	Name:       "pod",
	Aliases:    []string{"pods", "vmhost", "vmhosts", "p"},
	PrimaryKey: "id",
	Columns: []string{
		"id",
		"name",
		"type",
		"total.cores:cpu",
		"total.memory:ram",
		"total.local_storage:storage",
		"zone.name:zone",
	},
	Mappings: map[string]Mapper{
		"cpu":     path("total.cores"),
		"pool":    path("pool.name"),
		"ram":     path("total.memory"),
		"storage": path("total.local_storage"),
		"tags":    tagNames,
		"zone":    path("zone.name"),
	},
	FetchKeys: map[string]string{
		"pool": "pool",
		"type": "pod_type",
		"zone": "zone",
	},
}
