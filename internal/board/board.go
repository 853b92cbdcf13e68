// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package board opens the register bus, PMU and CPU of a sun4i board, or
// of the simulator, for the commands.
package board

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/platinasystems/standby/pmu"
	"github.com/platinasystems/standby/reg"
	"github.com/platinasystems/standby/sim"
	"github.com/platinasystems/standby/standby"
	"github.com/platinasystems/standby/sun4i"
)

const DefaultPollInterval = 10 * time.Millisecond

type Options struct {
	// DTB, if set, supplies the block base addresses.
	DTB string
	// I2C is the PMU as BUS.ADDR, e.g. "0.0x34".
	I2C      string
	Simulate bool
}

type Board struct {
	Bases sun4i.Bases
	Bus   reg.Bus
	Delay reg.Delay
	Rails pmu.Provider
	CPU   standby.CPU
	// Sim is the simulated platform, if any.
	Sim *sim.Platform

	close func() error
}

func Open(opt Options) (*Board, error) {
	bases := sun4i.Default
	if len(opt.DTB) > 0 {
		var err error
		if bases, err = sun4i.FromDTB(opt.DTB); err != nil {
			return nil, err
		}
	}
	if opt.Simulate {
		p := sim.New()
		p.Bases = bases
		p.Reset()
		return &Board{
			Bases: bases,
			Bus:   p,
			Delay: p,
			Rails: p.Rails,
			CPU:   p,
			Sim:   p,
		}, nil
	}
	axp := &pmu.AXP209{Bus: pmu.DefaultBus, Addr: pmu.DefaultAddr}
	if len(opt.I2C) > 0 {
		bus, addr, err := ParseI2C(opt.I2C)
		if err != nil {
			return nil, err
		}
		axp.Bus, axp.Addr = bus, addr
	}
	return open(bases, axp)
}

func (b *Board) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// ParseI2C parses BUS.ADDR with either in any Go integer base.
func ParseI2C(s string) (bus, addr int, err error) {
	f := strings.SplitN(s, ".", 2)
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("%s: not BUS.ADDR", s)
	}
	b, err := strconv.ParseUint(f[0], 0, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: bus: %v", s, err)
	}
	a, err := strconv.ParseUint(f[1], 0, 7)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: addr: %v", s, err)
	}
	return int(b), int(a), nil
}

// Interrupt controller banks.
const (
	intcPend0   = 0x10
	intcEnable0 = 0x40
	intcMask0   = 0x50
	intcBanks   = 3
)

// PollCPU stands in for WFI from user space. WaitForInterrupt snapshots
// the pending banks and sleeps between scans of the interrupt controller
// until an enabled, unmasked line's pending bit differs from the
// snapshot.
//
// PollCPU is also the bus to the rest of the board. Until the next wait,
// it reads the pending banks as the core does after WFI: the lines that
// woke it acknowledged (clear) and every other line idle (set).
type PollCPU struct {
	Bus      reg.Bus
	INTC     uintptr
	Interval time.Duration

	woke *[intcBanks]uint32
}

func (c *PollCPU) pending(i uintptr) uintptr { return c.INTC + intcPend0 + 4*i }

func (c *PollCPU) snapshot() (pend [intcBanks]uint32) {
	for i := range pend {
		pend[i] = c.Bus.Read32(c.pending(uintptr(i)))
	}
	return
}

// changed returns the armed lines whose pending bit differs from snap.
func (c *PollCPU) changed(snap [intcBanks]uint32) (lines [intcBanks]uint32, ok bool) {
	for i := range lines {
		armed := c.Bus.Read32(c.INTC+intcEnable0+4*uintptr(i)) &^
			c.Bus.Read32(c.INTC+intcMask0+4*uintptr(i))
		lines[i] = (c.Bus.Read32(c.pending(uintptr(i))) ^ snap[i]) & armed
		if lines[i] != 0 {
			ok = true
		}
	}
	return
}

func (c *PollCPU) WaitForInterrupt() {
	c.woke = nil
	snap := c.snapshot()
	for {
		if lines, ok := c.changed(snap); ok {
			c.woke = &lines
			return
		}
		time.Sleep(c.Interval)
	}
}

func (c *PollCPU) Read32(addr uintptr) uint32 {
	if c.woke != nil && addr >= c.pending(0) && addr < c.pending(intcBanks) &&
		(addr-c.pending(0))%4 == 0 {
		return ^c.woke[(addr-c.pending(0))/4]
	}
	return c.Bus.Read32(addr)
}

func (c *PollCPU) Write32(addr uintptr, v uint32) { c.Bus.Write32(addr, v) }
