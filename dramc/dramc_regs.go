// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dramc

import (
	"unsafe"

	"github.com/platinasystems/standby/reg"
)

type reg32 uint32

// Memory map
type dramRegs struct {
	CCR   reg32 // controller configuration
	DCR   reg32 // DRAM configuration, command field in 31:27
	_     [0x4]byte
	CSR   reg32 // controller status
	_     [0x1f4]byte
	DLLCR [nDLL]reg32
	_     [0x34]byte
	HPFSR reg32 // host port FIFO empty status, bit per port
	HPCR  [nPorts]reg32
}

var (
	regs     dramRegs
	regsAddr = uintptr(unsafe.Pointer(&regs))
)

func (r *reg32) offset() uintptr { return uintptr(unsafe.Pointer(r)) - regsAddr }

func (r *reg32) addr(c *Controller) uintptr { return c.base + r.offset() }
func (r *reg32) get(c *Controller) uint32   { return c.bus.Read32(r.addr(c)) }

func (r *reg32) modify(c *Controller, clear, set uint32) {
	reg.Modify(c.bus, r.addr(c), clear, set)
}

const (
	nDLL   = 5
	nPorts = 32
)

// DCR command field.
const (
	cmdShift    = 27
	cmdMask     = 0x1f << cmdShift
	cmdBusy     = 1 << 31
	cmdSelfRef  = 0x12
	cmdPowerDn  = 0x1e
	cmdModeExit = 0x17
)

// CCR bits.
const (
	ccrITMOff    = 1 << 28
	ccrDataTrain = 1 << 30
)

const csrTrainErr = 1 << 20

// DLLCR bits.
const (
	dllNoReset = 1 << 30
	dllOff     = 1 << 31
)

// HPCR fields.
const (
	hpcrGate          = 1 << 0
	hpcrPrioShift     = 2
	hpcrPrioMask      = 0x3 << hpcrPrioShift
	hpcrWaitShift     = 4
	hpcrWaitMask      = 0xf << hpcrWaitShift
	hpcrCmdCountShift = 8
	hpcrCmdCountMask  = 0xff << hpcrCmdCountShift
)

// Settle delays in platform cycles.
const (
	commandSettle = 0x100
	dllSettle     = 0x100
)
