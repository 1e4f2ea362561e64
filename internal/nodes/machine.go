// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nodes

import (
	"github.com/tidwall/gjson"

	"github.com/tfctl/nodectl/internal/search"
)

// Machine records are keyed by system_id. Workload annotations are exposed
// as prefixed filters, so "workload-team:(storage)" matches machines whose
// team annotation contains "storage".
var Machine = &Kind{
	Name:       "machine",
	Aliases:    []string{"machines", "m"},
	PrimaryKey: "system_id",
	Prefixed: []search.PrefixedFilter{
		{Filter: "workload_annotations", Prefix: "workload"},
	},
	Columns: []string{
		"system_id",
		"hostname",
		"status",
		"power_state:power",
		"architecture:arch",
		"cpu_count:cpu",
		"memory:ram",
		"zone.name:zone",
		"pool.name:pool",
	},
	Mappings: map[string]Mapper{
		"arch":    path("architecture"),
		"cores":   path("cpu_count"),
		"cpu":     path("cpu_count"),
		"domain":  path("domain.name"),
		"mac":     collect("pxe_mac", "extra_macs"),
		"pod":     path("pod.name"),
		"pod-id":  path("pod.id"),
		"pool":    path("pool.name"),
		"power":   path("power_state"),
		"ram":     path("memory"),
		"release": machineRelease,
		"status":  statusLabel,
		"tags":    tagNames,
		"zone":    path("zone.name"),
	},
	FetchKeys: map[string]string{
		"arch":    "arch",
		"cores":   "cpu_count",
		"cpu":     "cpu_count",
		"domain":  "domain",
		"mac":     "mac_address",
		"owner":   "owner",
		"pod":     "pod",
		"pool":    "pool",
		"ram":     "mem",
		"release": "distro_series",
		"status":  "status",
		"tags":    "tags",
		"zone":    "zone",

		"workload_annotations": "workloads",
	},
}

// machineRelease is "osystem/distro_series" for machines that are deployed
// or deploying, nil otherwise.
func machineRelease(_ *Accessor, record gjson.Result) any {
	code := record.Get("status_code")
	if code.Type != gjson.Number || !StatusCode(code.Int()).Deployed() {
		return nil
	}
	osystem := record.Get("osystem").String()
	series := record.Get("distro_series").String()
	if osystem == "" && series == "" {
		return nil
	}
	return osystem + "/" + series
}
