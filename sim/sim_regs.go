// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package sim

// Registers with modeled side effects, offset from their block base.
const (
	dramDCR = 0x004
	dramCCR = 0x000
	dramCSR = 0x00c

	dcrBusy      = 1 << 31
	ccrDataTrain = 1 << 30
	csrTrainErr  = 1 << 20

	ccuPLL1  = 0x00
	ccuOSC24 = 0x50
	ccuCPU   = 0x54

	intcPend0   = 0x10
	intcEnable0 = 0x40
	intcMask0   = 0x50
	intcBanks   = 3

	tmrIRQEn   = 0x00
	tmrIRQSta  = 0x04
	tmr0Ctrl   = 0x10
	tmr0Intval = 0x14
	tmrTicks   = 1024 // per second
)

// Reset values.
const (
	resetPLL1  = 1<<31 | 0x1000
	resetOSC24 = 0xa7<<24 | 1<<15 | 1<<0
	resetCPU   = 2<<16 | 0x1
)
