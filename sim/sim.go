// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package sim models enough of a sun4i board to run a standby cycle on the
// host: the DRAM controller command handshake, the clock tree reset state,
// the interrupt controller pending lines, timer 0 and the PMU rails.
//
// Pending lines idle high. A wake source fires by pulling its line low,
// which is what the wake source manager reads back as fired.
package sim

import (
	"fmt"

	"github.com/platinasystems/log"
	"github.com/platinasystems/standby/pmu"
	"github.com/platinasystems/standby/reg"
	"github.com/platinasystems/standby/sun4i"
	"github.com/platinasystems/standby/wakesrc"
)

const spurious = ^uint(0)

type Platform struct {
	*reg.Mem
	Bases sun4i.Bases
	Rails *pmu.Rails

	// DRAMStuck keeps the command busy bit set forever.
	DRAMStuck bool
	// TrainErr fails the read pipe scan.
	TrainErr bool

	// Wakes counts delivered interrupts, spurious ones included.
	Wakes int

	irq chan uint
}

func New() *Platform {
	p := &Platform{
		Mem:   reg.NewMem(),
		Bases: sun4i.Default,
		Rails: pmu.NewRails(3300, 1400, 1500),
		irq:   make(chan uint, 16),
	}
	p.Reset()
	return p
}

// Reset restores the state the bootloader leaves behind.
func (p *Platform) Reset() {
	b := p.Bases
	p.Poke(b.CCU+ccuPLL1, resetPLL1)
	p.Poke(b.CCU+ccuOSC24, resetOSC24)
	p.Poke(b.CCU+ccuCPU, resetCPU)
	for i := uintptr(0); i < intcBanks; i++ {
		p.Poke(b.INTC+intcPend0+4*i, 0xffffffff)
		p.Poke(b.INTC+intcEnable0+4*i, 0)
		p.Poke(b.INTC+intcMask0+4*i, 0xffffffff)
		p.OnWrite(b.INTC+intcPend0+4*i, func(old, v uint32) uint32 {
			return old &^ v
		})
	}
	p.OnRead(b.DRAMC+dramDCR, func(v uint32) uint32 {
		if p.DRAMStuck {
			return v
		}
		return v &^ dcrBusy
	})
	p.OnRead(b.DRAMC+dramCCR, func(v uint32) uint32 {
		return v &^ ccrDataTrain
	})
	p.OnRead(b.DRAMC+dramCSR, func(v uint32) uint32 {
		if p.TrainErr {
			return v | csrTrainErr
		}
		return v &^ csrTrainErr
	})
}

func line(l uint) (uintptr, uint32) {
	return uintptr(l/32) * 4, 1 << (l % 32)
}

// Fire queues an interrupt from src.
func (p *Platform) Fire(src wakesrc.Source) { p.irq <- src.Line() }

// Spurious queues a wake that leaves every pending line idle.
func (p *Platform) Spurious() { p.irq <- spurious }

func (p *Platform) unmasked(l uint) bool {
	o, bit := line(l)
	b := p.Bases.INTC
	return p.Peek(b+intcEnable0+o)&bit != 0 &&
		p.Peek(b+intcMask0+o)&bit == 0
}

// timer returns the armed timer 0 interval in ticks.
func (p *Platform) timer() (uint32, bool) {
	t := p.Bases.Timer
	if p.Peek(t+tmr0Ctrl)&1 == 0 || p.Peek(t+tmrIRQEn)&1 == 0 {
		return 0, false
	}
	if !p.unmasked(wakesrc.TimerOff.Line()) {
		return 0, false
	}
	return p.Peek(t + tmr0Intval), true
}

// WaitForInterrupt idles every pending line then sleeps until a queued
// interrupt arrives on an unmasked line. With nothing queued, an armed
// timer 0 expires.
func (p *Platform) WaitForInterrupt() {
	b := p.Bases.INTC
	for i := uintptr(0); i < intcBanks; i++ {
		p.Poke(b+intcPend0+4*i, 0xffffffff)
	}
	for {
		var l uint
		select {
		case l = <-p.irq:
		default:
			if ticks, ok := p.timer(); ok {
				p.Ms(uint32(uint64(ticks) * 1000 / tmrTicks))
				p.Poke(p.Bases.Timer+tmrIRQSta, 1)
				l = wakesrc.TimerOff.Line()
			} else {
				l = <-p.irq
			}
		}
		if l == spurious {
			p.Wakes++
			return
		}
		if !p.unmasked(l) {
			log.Print("debug", "sim: ignored irq ", l)
			continue
		}
		o, bit := line(l)
		p.Poke(b+intcPend0+o, p.Peek(b+intcPend0+o)&^bit)
		p.Wakes++
		return
	}
}

// Clocks describes the CCU the way a datasheet table would.
func (p *Platform) Clocks() string {
	b := p.Bases.CCU
	return fmt.Sprintf("pll1 %#08x osc24m %#08x cpu %#08x",
		p.Peek(b+ccuPLL1), p.Peek(b+ccuOSC24), p.Peek(b+ccuCPU))
}
