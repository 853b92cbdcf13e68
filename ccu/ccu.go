// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ccu sequences the sun4i CPU clock source, PLL1, the 24MHz
// oscillator and its LDO together with the PMU supply rails.
//
// Each step refuses, with *reg.InvariantViolation, to leave the CPU on a
// stopped clock:
//
//	the CPU leaves PLL1 before PLL1 stops and returns only after it runs
//	the CPU leaves HOSC before HOSC stops and returns only after it runs
//	HOSC stops before its LDO and restarts after it
package ccu

import (
	"fmt"

	"github.com/platinasystems/standby/pmu"
	"github.com/platinasystems/standby/reg"
)

type CPUSource uint8

const (
	LOSC CPUSource = iota
	HOSC
	PLL
)

func (s CPUSource) String() string {
	switch s {
	case LOSC:
		return "losc"
	case HOSC:
		return "hosc"
	case PLL:
		return "pll1"
	}
	return fmt.Sprintf("CPUSource(%d)", uint8(s))
}

// Topology is the clock tree state read back from the CCU.
type Topology struct {
	Source CPUSource
	PLL    bool
	HOSC   bool
	LDO    bool
}

func (t Topology) String() string {
	return fmt.Sprintf("cpu %v pll1 %t hosc %t ldo %t",
		t.Source, t.PLL, t.HOSC, t.LDO)
}

// Check returns why the topology is unsafe, if it is.
func (t Topology) Check() error {
	switch {
	case t.Source == PLL && !t.PLL:
		return &reg.InvariantViolation{Op: "topology", Why: "cpu on stopped pll1"}
	case t.Source == HOSC && !t.HOSC:
		return &reg.InvariantViolation{Op: "topology", Why: "cpu on stopped hosc"}
	case t.HOSC && !t.LDO:
		return &reg.InvariantViolation{Op: "topology", Why: "hosc running without ldo"}
	}
	return nil
}

// Op names a sequencer step kind.
type Op uint8

const (
	Switch Op = iota
	Disable
	Enable
	SetVoltage
	Settle
)

func (o Op) String() string {
	switch o {
	case Switch:
		return "switch"
	case Disable:
		return "disable"
	case Enable:
		return "enable"
	case SetVoltage:
		return "voltage"
	case Settle:
		return "settle"
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Mirror is the opposite step kind.
func (o Op) Mirror() Op {
	switch o {
	case Disable:
		return Enable
	case Enable:
		return Disable
	}
	return o
}

// Step records one sequencer action for OnStep.
type Step struct {
	Op     Op
	Target string
	MV     int
}

func (s Step) String() string {
	if s.Op == SetVoltage {
		return fmt.Sprintf("%v %s %dmV", s.Op, s.Target, s.MV)
	}
	return fmt.Sprintf("%v %s", s.Op, s.Target)
}

type Sequencer struct {
	bus   reg.Bus
	delay reg.Delay
	base  uintptr
	pmu   pmu.Provider
	// OnStep, if set, is called after each completed step.
	OnStep func(Step)
}

func New(bus reg.Bus, delay reg.Delay, base uintptr, p pmu.Provider) *Sequencer {
	return &Sequencer{bus: bus, delay: delay, base: base, pmu: p}
}

func (s *Sequencer) step(op Op, target string, mv int) {
	if s.OnStep != nil {
		s.OnStep(Step{Op: op, Target: target, MV: mv})
	}
}

func (s *Sequencer) Topology() Topology {
	osc := regs.OSC24MCfg.get(s)
	return Topology{
		Source: CPUSource(reg.Field(regs.CPUAHBAPB0Cfg.get(s), cpuSrcShift, 2)),
		PLL:    regs.PLL1Cfg.get(s)&pll1Enable != 0,
		HOSC:   osc&hoscEnable != 0,
		LDO:    osc&ldoEnable != 0,
	}
}

func violation(op, why string) error {
	return &reg.InvariantViolation{Op: op, Why: why}
}

func (s *Sequencer) switchCPU(to CPUSource) error {
	op := "switch cpu to " + to.String()
	t := s.Topology()
	switch {
	case to == PLL && !t.PLL:
		return violation(op, "pll1 stopped")
	case to == HOSC && !t.HOSC:
		return violation(op, "hosc stopped")
	case to > PLL:
		return violation(op, "unknown source")
	}
	regs.CPUAHBAPB0Cfg.modify(s, cpuSrcMask, uint32(to)<<cpuSrcShift)
	s.step(Switch, to.String(), 0)
	return nil
}

func (s *Sequencer) SwitchCPUToHOSC() error { return s.switchCPU(HOSC) }
func (s *Sequencer) SwitchCPUToPLL() error  { return s.switchCPU(PLL) }
func (s *Sequencer) SwitchCPUToLOSC() error { return s.switchCPU(LOSC) }

func (s *Sequencer) DisablePLL() error {
	if s.Topology().Source == PLL {
		return violation("disable pll1", "cpu on pll1")
	}
	regs.PLL1Cfg.modify(s, pll1Enable, 0)
	s.step(Disable, "pll1", 0)
	return nil
}

func (s *Sequencer) EnablePLL() error {
	regs.PLL1Cfg.modify(s, 0, pll1Enable)
	s.step(Enable, "pll1", 0)
	return nil
}

func (s *Sequencer) DisableHOSC() error {
	if s.Topology().Source == HOSC {
		return violation("disable hosc", "cpu on hosc")
	}
	regs.OSC24MCfg.modify(s, hoscEnable, 0)
	s.step(Disable, "hosc", 0)
	return nil
}

func (s *Sequencer) EnableHOSC() error {
	if !s.Topology().LDO {
		return violation("enable hosc", "ldo off")
	}
	regs.OSC24MCfg.modify(s, 0, hoscEnable)
	s.step(Enable, "hosc", 0)
	return nil
}

// LDO writes must carry the key.

func (s *Sequencer) DisableLDO() error {
	if s.Topology().HOSC {
		return violation("disable ldo", "hosc running")
	}
	regs.OSC24MCfg.modify(s, ldoKeyMask|ldoEnable, ldoKey)
	s.step(Disable, "ldo", 0)
	return nil
}

func (s *Sequencer) EnableLDO() error {
	regs.OSC24MCfg.modify(s, ldoKeyMask, ldoKey|ldoEnable)
	s.step(Enable, "ldo", 0)
	return nil
}

func (s *Sequencer) Voltage(r pmu.Rail) (int, error) { return s.pmu.Voltage(r) }

func (s *Sequencer) SetVoltage(r pmu.Rail, mv int) error {
	if err := s.pmu.SetVoltage(r, mv); err != nil {
		return err
	}
	s.step(SetVoltage, r.String(), mv)
	return nil
}

func (s *Sequencer) settle(ms uint32) {
	s.delay.Ms(ms)
	s.step(Settle, fmt.Sprint(ms, "ms"), 0)
}
