// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package standby

import "fmt"

type State uint8

const (
	Idle State = iota
	SavingWakeSources
	ContextSaved
	DRAMSuspended
	ClocksLowered
	Parked
	ClocksRestoring
	DRAMResumed
	ContextRestored
	nStates
)

var stateNames = [nStates]string{
	Idle:              "idle",
	SavingWakeSources: "saving-wake-sources",
	ContextSaved:      "context-saved",
	DRAMSuspended:     "dram-suspended",
	ClocksLowered:     "clocks-lowered",
	Parked:            "parked",
	ClocksRestoring:   "clocks-restoring",
	DRAMResumed:       "dram-resumed",
	ContextRestored:   "context-restored",
}

func (s State) String() string {
	if s < nStates {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// next is the only legal successor of each state.
func (s State) next() State {
	if s == ContextRestored {
		return Idle
	}
	return s + 1
}
