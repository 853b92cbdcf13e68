// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ccu

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/platinasystems/standby/pmu"
	"github.com/platinasystems/standby/reg"
	"github.com/platinasystems/standby/sun4i"
)

var base = sun4i.Default.CCU

func at(r *reg32) uintptr { return base + r.offset() }

func TestLayout(t *testing.T) {
	for _, x := range []struct {
		name string
		r    *reg32
		off  uintptr
	}{
		{"pll1", &regs.PLL1Cfg, 0x00},
		{"osc24m", &regs.OSC24MCfg, 0x50},
		{"cpu", &regs.CPUAHBAPB0Cfg, 0x54},
	} {
		if off := x.r.offset(); off != x.off {
			t.Errorf("%s: wrong: %#x", x.name, off)
		}
	}
}

// running leaves the clock tree as the bootloader does: CPU on PLL1 with
// every oscillator up.
func running() (*Sequencer, *reg.Mem, *pmu.Rails, *[]string) {
	m := reg.NewMem()
	m.Poke(at(&regs.PLL1Cfg), pll1Enable|0x1000)
	m.Poke(at(&regs.OSC24MCfg), ldoKey|ldoEnable|hoscEnable)
	m.Poke(at(&regs.CPUAHBAPB0Cfg), uint32(PLL)<<cpuSrcShift|0x3)
	rails := pmu.NewRails(3300, 1400, 1500)
	s := New(m, m, base, rails)
	steps := new([]string)
	s.OnStep = func(st Step) { *steps = append(*steps, st.String()) }
	return s, m, rails, steps
}

func TestTopology(t *testing.T) {
	s, _, _, _ := running()
	want := Topology{Source: PLL, PLL: true, HOSC: true, LDO: true}
	if got := s.Topology(); got != want {
		t.Error("wrong:", got)
	}
	if err := want.Check(); err != nil {
		t.Error(err)
	}
}

func TestOrdering(t *testing.T) {
	for _, tc := range []struct {
		name string
		f    func(*Sequencer) error
	}{
		{"disable pll1 under cpu", (*Sequencer).DisablePLL},
		{"disable hosc under cpu", func(s *Sequencer) error {
			if err := s.SwitchCPUToHOSC(); err != nil {
				return nil
			}
			return s.DisableHOSC()
		}},
		{"disable ldo under hosc", func(s *Sequencer) error {
			if err := s.SwitchCPUToLOSC(); err != nil {
				return nil
			}
			return s.DisableLDO()
		}},
		{"switch to stopped pll1", func(s *Sequencer) error {
			if err := s.SwitchCPUToHOSC(); err != nil {
				return nil
			}
			if err := s.DisablePLL(); err != nil {
				return nil
			}
			return s.SwitchCPUToPLL()
		}},
		{"enable hosc without ldo", func(s *Sequencer) error {
			for _, f := range []func() error{
				s.SwitchCPUToLOSC,
				s.DisableHOSC,
				s.DisableLDO,
			} {
				if err := f(); err != nil {
					return nil
				}
			}
			return s.EnableHOSC()
		}},
	} {
		s, _, _, _ := running()
		err := tc.f(s)
		var iv *reg.InvariantViolation
		if !errors.As(err, &iv) {
			t.Errorf("%s: wrong: %v", tc.name, err)
			continue
		}
		if err := s.Topology().Check(); err != nil {
			t.Errorf("%s: %v", tc.name, err)
		}
	}
}

func TestViolationWritesNothing(t *testing.T) {
	s, m, _, _ := running()
	m.Writes = 0
	if err := s.DisablePLL(); err == nil {
		t.Fatal("disabled pll1 under the cpu")
	}
	if m.Writes != 0 {
		t.Error("wrote", m.Writes)
	}
}

func TestLDOKey(t *testing.T) {
	s, m, _, _ := running()
	for _, f := range []func() error{
		s.SwitchCPUToLOSC,
		s.DisableHOSC,
		s.DisableLDO,
	} {
		if err := f(); err != nil {
			t.Fatal(err)
		}
	}
	if v := m.Peek(at(&regs.OSC24MCfg)); v != ldoKey {
		t.Errorf("wrong: %#x", v)
	}
	if err := s.EnableLDO(); err != nil {
		t.Fatal(err)
	}
	if v := m.Peek(at(&regs.OSC24MCfg)); v != ldoKey|ldoEnable {
		t.Errorf("wrong: %#x", v)
	}
}

func TestDownUp(t *testing.T) {
	s, m, rails, steps := running()
	var set []string
	rails.Log = func(r pmu.Rail, mv int) {
		set = append(set, r.String())
	}
	before := []uint32{
		m.Peek(at(&regs.PLL1Cfg)),
		m.Peek(at(&regs.OSC24MCfg)),
		m.Peek(at(&regs.CPUAHBAPB0Cfg)),
	}
	orig, err := s.Down(DefaultPlan)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Voltages{VCC: 3300, Core: 1400, DRAM: 1500}); orig != want {
		t.Error("wrong snapshot:", orig)
	}
	if got := s.Topology(); got != (Topology{Source: LOSC}) {
		t.Error("wrong down topology:", got)
	}
	if mv, _ := rails.Voltage(pmu.Core); mv != DefaultPlan.DeepCore {
		t.Error("wrong deep core:", mv)
	}
	if err = s.Up(DefaultPlan, orig); err != nil {
		t.Fatal(err)
	}
	after := []uint32{
		m.Peek(at(&regs.PLL1Cfg)),
		m.Peek(at(&regs.OSC24MCfg)),
		m.Peek(at(&regs.CPUAHBAPB0Cfg)),
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Error("registers (-before +after):\n", diff)
	}
	if got, _ := s.Snapshot(); got != orig {
		t.Error("wrong restore:", got)
	}
	want := []string{
		"switch hosc",
		"disable pll1",
		"voltage vcc 3000mV",
		"voltage dram 1400mV",
		"voltage core 1050mV",
		"switch losc",
		"disable hosc",
		"disable ldo",
		"voltage core 1000mV",
		"voltage core 1050mV",
		"settle 30ms",
		"enable ldo",
		"enable hosc",
		"switch hosc",
		"voltage core 1400mV",
		"voltage dram 1500mV",
		"voltage vcc 3300mV",
		"settle 30ms",
		"enable pll1",
		"settle 30ms",
		"switch pll1",
	}
	if diff := cmp.Diff(want, *steps); diff != "" {
		t.Error("steps (-want +got):\n", diff)
	}
	if m.Elapsed < 3*MinSettleMs*1000 {
		t.Error("short settle:", m.Elapsed)
	}
}

// Up undoes each Down step in reverse order, returning every clock and
// rail to the setting it had before that step.
func TestMirror(t *testing.T) {
	for _, drop := range []bool{false, true} {
		m := reg.NewMem()
		m.Poke(at(&regs.PLL1Cfg), pll1Enable)
		m.Poke(at(&regs.OSC24MCfg), ldoKey|ldoEnable|hoscEnable)
		m.Poke(at(&regs.CPUAHBAPB0Cfg), uint32(PLL)<<cpuSrcShift)
		rails := pmu.NewRails(3300, 1400, 1500)
		s := New(m, m, base, rails)
		var steps []Step
		s.OnStep = func(st Step) {
			if st.Op != Settle {
				steps = append(steps, st)
			}
		}
		p := DefaultPlan
		p.DropHOSC = drop
		orig, err := s.Down(p)
		if err != nil {
			t.Fatal(err)
		}
		src := PLL.String()
		mv := map[string]int{"vcc": 3300, "core": 1400, "dram": 1500}
		var undo []Step
		for _, st := range steps {
			u := Step{Op: st.Op.Mirror(), Target: st.Target}
			switch st.Op {
			case Switch:
				u.Target, src = src, st.Target
			case SetVoltage:
				u.MV, mv[st.Target] = mv[st.Target], st.MV
			}
			undo = append([]Step{u}, undo...)
		}
		steps = nil
		if err = s.Up(p, orig); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(undo, steps); diff != "" {
			t.Errorf("drop %t (-want +got):\n%s", drop, diff)
		}
	}
}

type faulty struct {
	*pmu.Rails
	rail pmu.Rail
}

var errRail = errors.New("rail fault")

func (f faulty) SetVoltage(r pmu.Rail, mv int) error {
	if r == f.rail {
		return errRail
	}
	return f.Rails.SetVoltage(r, mv)
}

func TestRailFaultContinues(t *testing.T) {
	s, _, rails, _ := running()
	s.pmu = faulty{rails, pmu.DRAM}
	orig, err := s.Down(DefaultPlan)
	if !errors.Is(err, errRail) {
		t.Fatal("wrong:", err)
	}
	if got := s.Topology(); got != (Topology{Source: LOSC}) {
		t.Error("sequence stopped:", got)
	}
	if err = s.Up(DefaultPlan, orig); !errors.Is(err, errRail) {
		t.Fatal("wrong:", err)
	}
	want := Topology{Source: PLL, PLL: true, HOSC: true, LDO: true}
	if got := s.Topology(); got != want {
		t.Error("wrong:", got)
	}
}

func TestSettleFloor(t *testing.T) {
	if ms := (Plan{SettleMs: 5}).settleMs(); ms != MinSettleMs {
		t.Error("wrong:", ms)
	}
	if ms := (Plan{SettleMs: 50}).settleMs(); ms != 50 {
		t.Error("wrong:", ms)
	}
}
