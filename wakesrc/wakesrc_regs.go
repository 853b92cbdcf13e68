// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package wakesrc

import (
	"math"
	"unsafe"
)

type reg32 uint32

const nBanks = 3

// Interrupt controller memory map, banks of 32 lines.
type intcRegs struct {
	_      [0x10]byte
	Pend   [nBanks]reg32 // write 1 to clear
	_      [0x24]byte
	Enable [nBanks]reg32
	_      [0x4]byte
	Mask   [nBanks]reg32
}

type timerRegs struct {
	IRQEn     reg32
	IRQSta    reg32
	_         [0x8]byte
	Tmr0Ctrl  reg32
	Tmr0Intvl reg32
}

type lradcRegs struct {
	_    [0xc]byte
	IntS reg32
}

var (
	intc  intcRegs
	timer timerRegs
	lradc lradcRegs
)

// offset of r within block, one of the mirrored memory maps above.
func offset(block unsafe.Pointer, r *reg32) uintptr {
	return uintptr(unsafe.Pointer(r)) - uintptr(block)
}

func (m *Manager) intcAddr(r *reg32) uintptr {
	return m.cfg.INTC + offset(unsafe.Pointer(&intc), r)
}

func (m *Manager) timerAddr(r *reg32) uintptr {
	return m.cfg.Timer + offset(unsafe.Pointer(&timer), r)
}

func (m *Manager) lradcAddr(r *reg32) uintptr {
	return m.cfg.LRADC + offset(unsafe.Pointer(&lradc), r)
}

// IRQ lines.
const (
	irqNMI    = 0
	irqIR0    = 5
	irqTimer0 = 22
	irqLRADC  = 31
	irqUSB0   = 38
)

// TMR0_CTRL fields.
const (
	tmrEnable      = 1 << 0
	tmrReload      = 1 << 1
	tmrSrcLOSC     = 0 << 2
	tmrPrescale32  = 5 << 4
	tmrSingleShot  = 1 << 7
	tmr0IRQ        = 1 << 0
	ticksPerSecond = 32768 / 32
)

// MaxTimeoff is the longest timer wake, in seconds, the 32-bit interval
// register holds.
const MaxTimeoff = math.MaxUint32 / ticksPerSecond

func bank(line uint) (int, uint32) {
	return int(line / 32), 1 << (line % 32)
}
