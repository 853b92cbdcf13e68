// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package dramc

import "fmt"

// HostPort is the arbitration setup of one bus master port.
type HostPort struct {
	Priority   uint8 // 0..3
	WaitCycles uint8 // 0..15
	CmdCount   uint8
}

func (p HostPort) String() string {
	return fmt.Sprintf("prio %d wait %d cmds %d",
		p.Priority, p.WaitCycles, p.CmdCount)
}

// Ports is the number of host ports. Port operations ignore ports beyond
// the last without error.
const Ports = nPorts

func (c *Controller) SetHostPortGate(port uint, enabled bool) {
	if port >= nPorts {
		return
	}
	if enabled {
		regs.HPCR[port].modify(c, 0, hpcrGate)
	} else {
		regs.HPCR[port].modify(c, hpcrGate, 0)
	}
}

func (c *Controller) HostPortGate(port uint) bool {
	if port >= nPorts {
		return false
	}
	return regs.HPCR[port].get(c)&hpcrGate != 0
}

func (c *Controller) HostPortFifoEmpty(port uint) bool {
	if port >= nPorts {
		return false
	}
	return regs.HPFSR.get(c)&(1<<port) != 0
}

// ConfigureHostPort truncates each field to its width.
func (c *Controller) ConfigureHostPort(port uint, p HostPort) {
	if port >= nPorts {
		return
	}
	regs.HPCR[port].modify(c,
		hpcrPrioMask|hpcrWaitMask|hpcrCmdCountMask,
		uint32(p.Priority)<<hpcrPrioShift&hpcrPrioMask|
			uint32(p.WaitCycles)<<hpcrWaitShift&hpcrWaitMask|
			uint32(p.CmdCount)<<hpcrCmdCountShift&hpcrCmdCountMask)
}

func (c *Controller) HostPortConfig(port uint) (HostPort, bool) {
	if port >= nPorts {
		return HostPort{}, false
	}
	v := regs.HPCR[port].get(c)
	return HostPort{
		Priority:   uint8((v & hpcrPrioMask) >> hpcrPrioShift),
		WaitCycles: uint8((v & hpcrWaitMask) >> hpcrWaitShift),
		CmdCount:   uint8((v & hpcrCmdCountMask) >> hpcrCmdCountShift),
	}, true
}
