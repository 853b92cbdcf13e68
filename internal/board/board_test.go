// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"testing"
	"time"

	"github.com/platinasystems/standby/reg"
	"github.com/platinasystems/standby/sim"
	"github.com/platinasystems/standby/standby"
	"github.com/platinasystems/standby/wakesrc"
)

func TestParseI2C(t *testing.T) {
	for _, tc := range []struct {
		s         string
		bus, addr int
		ok        bool
	}{
		{"0.0x34", 0, 0x34, true},
		{"1.52", 1, 52, true},
		{"0x34", 0, 0, false},
		{"0.0x80", 0, 0, false},
		{"x.0x34", 0, 0, false},
	} {
		bus, addr, err := ParseI2C(tc.s)
		if (err == nil) != tc.ok {
			t.Errorf("%s: wrong: %v", tc.s, err)
			continue
		}
		if tc.ok && (bus != tc.bus || addr != tc.addr) {
			t.Errorf("%s: wrong: %d.%#x", tc.s, bus, addr)
		}
	}
}

func TestSimulate(t *testing.T) {
	b, err := Open(Options{Simulate: true})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if b.Sim == nil || b.Bus != b.Sim {
		t.Error("not simulated")
	}
}

// reset leaves the interrupt controller as the hardware does: nothing
// pending, enabled or unmasked.
func reset(m *reg.Mem, intc uintptr) {
	for i := uintptr(0); i < intcBanks; i++ {
		m.Poke(intc+intcPend0+4*i, 0)
		m.Poke(intc+intcEnable0+4*i, 0)
		m.Poke(intc+intcMask0+4*i, 0xffffffff)
	}
}

func TestPollCPU(t *testing.T) {
	const intc = 0x01c20400
	m := reg.NewMem()
	reset(m, intc)
	c := &PollCPU{Bus: m, INTC: intc, Interval: time.Millisecond}
	w := wakesrc.New(c, wakesrc.Config{INTC: intc})
	w.Enable(wakesrc.USB)
	w.Enable(wakesrc.Key)
	done := make(chan struct{})
	go func() {
		c.WaitForInterrupt()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("woke with nothing pending")
	case <-time.After(50 * time.Millisecond):
	}
	// a masked line doesn't wake
	m.Poke(intc+intcPend0, 1<<0)
	select {
	case <-done:
		t.Fatal("woke on masked nmi")
	case <-time.After(50 * time.Millisecond):
	}
	// usb is line 38, bank 1 bit 6
	m.Poke(intc+intcPend0+4, 1<<6)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("no wake")
	}
	fired := w.Fired(wakesrc.Of(wakesrc.USB, wakesrc.Key))
	if fired != wakesrc.Of(wakesrc.USB) {
		t.Error("wrong fired:", fired)
	}
}

func TestPollCPUSuspend(t *testing.T) {
	p := sim.New()
	reset(p.Mem, p.Bases.INTC)
	c := &PollCPU{Bus: p, INTC: p.Bases.INTC, Interval: time.Millisecond}
	o := standby.New(c, p, p.Rails, c, standby.Config{})
	type result struct {
		res standby.Result
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := o.Suspend(standby.Request{
			Wake: wakesrc.Of(wakesrc.ExtNMI, wakesrc.Key, wakesrc.IR),
		})
		done <- result{res, err}
	}()
	select {
	case r := <-done:
		t.Fatal("returned with nothing pending: wake", r.res.Wake, r.err)
	case <-time.After(100 * time.Millisecond):
	}
	// ir is line 5
	p.Poke(p.Bases.INTC+intcPend0, 1<<5)
	select {
	case r := <-done:
		if r.err != nil {
			t.Fatal(r.err)
		}
		if r.res.Wake != wakesrc.Of(wakesrc.IR) {
			t.Error("wrong wake:", r.res.Wake)
		}
	case <-time.After(time.Second):
		t.Fatal("no wake")
	}
}
