// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nodes

import "strconv"

// StatusCode is the numeric lifecycle state carried in a record's
// status_code attribute.
type StatusCode int

const (
	StatusNew StatusCode = iota
	StatusCommissioning
	StatusFailedCommissioning
	StatusMissing
	StatusReady
	StatusReserved
	StatusDeployed
	StatusRetired
	StatusBroken
	StatusDeploying
	StatusAllocated
	StatusFailedDeployment
	StatusReleasing
	StatusFailedReleasing
	StatusDiskErasing
	StatusFailedDiskErasing
	StatusRescueMode
	StatusEnteringRescueMode
	StatusFailedEnteringRescueMode
	StatusExitingRescueMode
	StatusFailedExitingRescueMode
	StatusTesting
	StatusFailedTesting
)

var statusLabels = map[StatusCode]string{
	StatusNew:                      "New",
	StatusCommissioning:            "Commissioning",
	StatusFailedCommissioning:      "Failed commissioning",
	StatusMissing:                  "Missing",
	StatusReady:                    "Ready",
	StatusReserved:                 "Reserved",
	StatusDeployed:                 "Deployed",
	StatusRetired:                  "Retired",
	StatusBroken:                   "Broken",
	StatusDeploying:                "Deploying",
	StatusAllocated:                "Allocated",
	StatusFailedDeployment:         "Failed deployment",
	StatusReleasing:                "Releasing",
	StatusFailedReleasing:          "Releasing failed",
	StatusDiskErasing:              "Disk erasing",
	StatusFailedDiskErasing:        "Failed disk erasing",
	StatusRescueMode:               "Rescue mode",
	StatusEnteringRescueMode:       "Entering rescue mode",
	StatusFailedEnteringRescueMode: "Failed to enter rescue mode",
	StatusExitingRescueMode:        "Exiting rescue mode",
	StatusFailedExitingRescueMode:  "Failed to exit rescue mode",
	StatusTesting:                  "Testing",
	StatusFailedTesting:            "Failed testing",
}

// String returns the display label, or the number for an unknown code.
func (s StatusCode) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return strconv.Itoa(int(s))
}

// Deployed reports whether a machine in this state has an OS release.
func (s StatusCode) Deployed() bool {
	return s == StatusDeployed || s == StatusDeploying
}
