// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ccu

import (
	"errors"
	"fmt"

	"github.com/platinasystems/standby/pmu"
	"github.com/platinasystems/standby/reg"
)

// MinSettleMs is the shortest rail and oscillator settle delay.
const MinSettleMs = 30

// Voltages holds one millivolt level per rail.
type Voltages struct {
	VCC, Core, DRAM int
}

func (v Voltages) Get(r pmu.Rail) int {
	switch r {
	case pmu.VCC:
		return v.VCC
	case pmu.Core:
		return v.Core
	case pmu.DRAM:
		return v.DRAM
	}
	return 0
}

func (v *Voltages) set(r pmu.Rail, mv int) {
	switch r {
	case pmu.VCC:
		v.VCC = mv
	case pmu.Core:
		v.Core = mv
	case pmu.DRAM:
		v.DRAM = mv
	}
}

func (v Voltages) String() string {
	return fmt.Sprintf("vcc %dmV core %dmV dram %dmV", v.VCC, v.Core, v.DRAM)
}

// Plan parameterizes the lowering and raising sequences.
type Plan struct {
	// Sleep levels, set in the order VCC, DRAM, Core.
	Sleep Voltages
	// DeepCore is the final Core level while parked.
	DeepCore int
	// DropHOSC stops the 24MHz oscillator and its LDO, leaving the CPU
	// on the 32KHz LOSC.
	DropHOSC bool
	// SettleMs is raised to MinSettleMs if smaller.
	SettleMs uint32
}

var DefaultPlan = Plan{
	Sleep:    Voltages{VCC: 3000, Core: 1050, DRAM: 1400},
	DeepCore: 1000,
	DropHOSC: true,
	SettleMs: MinSettleMs,
}

func (p Plan) settleMs() uint32 {
	if p.SettleMs < MinSettleMs {
		return MinSettleMs
	}
	return p.SettleMs
}

var downRails = []pmu.Rail{pmu.VCC, pmu.DRAM, pmu.Core}

// Snapshot reads every rail.
func (s *Sequencer) Snapshot() (Voltages, error) {
	var v Voltages
	for _, r := range downRails {
		mv, err := s.pmu.Voltage(r)
		if err != nil {
			return Voltages{}, fmt.Errorf("snapshot %v: %w", r, err)
		}
		v.set(r, mv)
	}
	return v, nil
}

type runner struct {
	faults []error
	err    error
}

// do skips f after an ordering violation, which ends the sequence.
// Anything else is collected as a fault.
func (r *runner) do(f func() error) {
	if r.err != nil {
		return
	}
	err := f()
	if err == nil {
		return
	}
	var iv *reg.InvariantViolation
	if errors.As(err, &iv) {
		r.err = err
		return
	}
	r.faults = append(r.faults, err)
}

func (r *runner) result() error {
	if r.err != nil {
		return r.err
	}
	return errors.Join(r.faults...)
}

func (s *Sequencer) setter(rail pmu.Rail, mv int) func() error {
	return func() error { return s.SetVoltage(rail, mv) }
}

// Down snapshots the rails and lowers clocks then voltages. A snapshot
// failure returns before any change. Rail faults are joined into the
// returned error and do not stop the sequence; an ordering violation
// does.
func (s *Sequencer) Down(p Plan) (Voltages, error) {
	orig, err := s.Snapshot()
	if err != nil {
		return Voltages{}, err
	}
	var r runner
	r.do(s.SwitchCPUToHOSC)
	r.do(s.DisablePLL)
	for _, rail := range downRails {
		r.do(s.setter(rail, p.Sleep.Get(rail)))
	}
	if p.DropHOSC {
		r.do(s.SwitchCPUToLOSC)
		r.do(s.DisableHOSC)
		r.do(s.DisableLDO)
	}
	r.do(s.setter(pmu.Core, p.DeepCore))
	return orig, r.result()
}

// Up mirrors Down, restoring orig exactly.
func (s *Sequencer) Up(p Plan, orig Voltages) error {
	var r runner
	settle := func() error {
		s.settle(p.settleMs())
		return nil
	}
	r.do(s.setter(pmu.Core, p.Sleep.Core))
	r.do(settle)
	if p.DropHOSC {
		r.do(s.EnableLDO)
		r.do(s.EnableHOSC)
		r.do(s.SwitchCPUToHOSC)
	}
	for i := len(downRails) - 1; i >= 0; i-- {
		r.do(s.setter(downRails[i], orig.Get(downRails[i])))
	}
	r.do(settle)
	r.do(s.EnablePLL)
	r.do(settle)
	r.do(s.SwitchCPUToPLL)
	return r.result()
}
