// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nodes

// Controller records (region and rack controllers) are keyed by system_id.
var Controller = &Kind{
	Name:       "controller",
	Aliases:    []string{"controllers", "c"},
	PrimaryKey: "system_id",
	Columns: []string{
		"system_id",
		"hostname",
		"node_type_display:type",
		"versions.current.version:version",
		"domain.name:domain",
	},
	Mappings: map[string]Mapper{
		"arch":    path("architecture"),
		"domain":  path("domain.name"),
		"status":  statusLabel,
		"tags":    tagNames,
		"version": path("versions.current.version"),
		"vlans":   path("vlan_ids"),
	},
	FetchKeys: map[string]string{
		"arch":   "arch",
		"domain": "domain",
		"tags":   "tags",
	},
}
