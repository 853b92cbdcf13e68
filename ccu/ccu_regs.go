// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ccu

import (
	"unsafe"

	"github.com/platinasystems/standby/reg"
)

type reg32 uint32

// Memory map
type ccuRegs struct {
	PLL1Cfg       reg32
	PLL1Tun       reg32
	_             [0x48]byte
	OSC24MCfg     reg32
	CPUAHBAPB0Cfg reg32
}

var (
	regs     ccuRegs
	regsAddr = uintptr(unsafe.Pointer(&regs))
)

func (r *reg32) offset() uintptr { return uintptr(unsafe.Pointer(r)) - regsAddr }

func (r *reg32) get(s *Sequencer) uint32 { return s.bus.Read32(s.base + r.offset()) }

func (r *reg32) modify(s *Sequencer, clear, set uint32) {
	reg.Modify(s.bus, s.base+r.offset(), clear, set)
}

const pll1Enable = 1 << 31

// OSC24M_CFG
const (
	hoscEnable = 1 << 0
	ldoEnable  = 1 << 15
	ldoKey     = 0xa7 << 24
	ldoKeyMask = 0xff << 24
)

// CPU_AHB_APB0_CFG
const (
	cpuSrcShift = 16
	cpuSrcMask  = 3 << cpuSrcShift
)
