// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dramc

import (
	"testing"

	"github.com/platinasystems/standby/reg"
)

func TestHostPortOutOfRange(t *testing.T) {
	m := reg.NewMem()
	m.Trace = true
	c := New(m, m, Config{Base: base})
	m.Poke(at(&regs.HPFSR), 0xffffffff)
	for _, port := range []uint{32, 33, 64, 1 << 20} {
		c.SetHostPortGate(port, true)
		c.ConfigureHostPort(port, HostPort{3, 15, 255})
		if c.HostPortFifoEmpty(port) {
			t.Error(port, "fifo empty")
		}
		if c.HostPortGate(port) {
			t.Error(port, "gated")
		}
		if _, ok := c.HostPortConfig(port); ok {
			t.Error(port, "config")
		}
	}
	if a := m.Accesses(); len(a) != 0 {
		t.Error("accessed:", a)
	}
}

func TestHostPortGateRoundTrip(t *testing.T) {
	m := reg.NewMem()
	c := New(m, m, Config{Base: base})
	for port := uint(0); port < nPorts; port++ {
		m.Poke(at(&regs.HPCR[port]), 0x0000ab00)
	}
	for port := uint(0); port < nPorts; port++ {
		before := m.Peek(at(&regs.HPCR[port]))
		c.SetHostPortGate(port, true)
		if !c.HostPortGate(port) {
			t.Error(port, "not gated")
		}
		c.SetHostPortGate(port, false)
		if after := m.Peek(at(&regs.HPCR[port])); after != before {
			t.Errorf("port %d: %#x != %#x", port, after, before)
		}
	}
}

func TestConfigureHostPort(t *testing.T) {
	m := reg.NewMem()
	c := New(m, m, Config{Base: base})
	m.Poke(at(&regs.HPCR[7]), 0xffff0001)
	c.ConfigureHostPort(7, HostPort{Priority: 2, WaitCycles: 9, CmdCount: 0x40})
	if v := m.Peek(at(&regs.HPCR[7])); v != 0xffff4000|9<<4|2<<2|1 {
		t.Errorf("wrong: %#x", v)
	}
	p, ok := c.HostPortConfig(7)
	if !ok || p != (HostPort{2, 9, 0x40}) {
		t.Error("wrong:", p)
	}
	// oversized fields are truncated, not spilled
	c.ConfigureHostPort(7, HostPort{Priority: 7, WaitCycles: 0x1f})
	if v := m.Peek(at(&regs.HPCR[7])); v != 0xffff0000|0xf<<4|3<<2|1 {
		t.Errorf("wrong: %#x", v)
	}
}

func TestHostPortFifoEmpty(t *testing.T) {
	m := reg.NewMem()
	c := New(m, m, Config{Base: base})
	m.Poke(at(&regs.HPFSR), 1<<3|1<<31)
	for port := uint(0); port < nPorts; port++ {
		want := port == 3 || port == 31
		if got := c.HostPortFifoEmpty(port); got != want {
			t.Error(port, got)
		}
	}
}
