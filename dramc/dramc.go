// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package dramc drives the sun4i DRAM controller through self-refresh and
// power-down and configures its host ports.
package dramc

import (
	"errors"
	"fmt"

	"github.com/platinasystems/standby/reg"
)

var ErrHardwareTimeout = errors.New("hardware timeout")

type State uint8

const (
	Active State = iota
	SelfRefresh
	PowerDown
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case SelfRefresh:
		return "self-refresh"
	case PowerDown:
		return "power-down"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// DefaultPollLimit bounds each command handshake.
const DefaultPollLimit = 1 << 20

type Config struct {
	Base uintptr
	// PollLimit is the number of status reads before a command is
	// reported as ErrHardwareTimeout; reg.Infinite waits forever.
	PollLimit int
}

type Controller struct {
	bus   reg.Bus
	delay reg.Delay
	base  uintptr
	limit int
	state State
}

// New returns a controller assumed Active.
func New(bus reg.Bus, delay reg.Delay, cfg Config) *Controller {
	return &Controller{
		bus:   bus,
		delay: delay,
		base:  cfg.Base,
		limit: cfg.PollLimit,
	}
}

func (c *Controller) State() State { return c.state }

// command issues a DCR command then waits for the controller to accept
// it.
func (c *Controller) command(code uint32) error {
	regs.DCR.modify(c, cmdMask, code<<cmdShift)
	if err := reg.Poll(c.bus, regs.DCR.addr(c), cmdBusy, c.limit); err != nil {
		return fmt.Errorf("%w: dram command %#x: %v",
			ErrHardwareTimeout, code, err)
	}
	c.delay.Cycles(commandSettle)
	return nil
}

func (c *Controller) enter(op string, to State, code uint32) error {
	if c.state != Active {
		return &reg.InvariantViolation{
			Op:  op,
			Why: "controller is " + c.state.String(),
		}
	}
	// the controller is in the new mode once the command is issued,
	// even if the handshake is lost
	c.state = to
	return c.command(code)
}

// modeExit is the one hardware command leaving both self-refresh and
// power-down.
func (c *Controller) modeExit(op string, from State) error {
	if c.state != from {
		return &reg.InvariantViolation{
			Op:  op,
			Why: "controller is " + c.state.String(),
		}
	}
	c.state = Active
	return c.command(cmdModeExit)
}

func (c *Controller) EnterSelfRefresh() error {
	return c.enter("enter self-refresh", SelfRefresh, cmdSelfRef)
}

func (c *Controller) ExitSelfRefresh() error {
	return c.modeExit("exit self-refresh", SelfRefresh)
}

func (c *Controller) EnterPowerDown() error {
	return c.enter("enter power-down", PowerDown, cmdPowerDn)
}

func (c *Controller) ExitPowerDown() error {
	return c.modeExit("exit power-down", PowerDown)
}

// PowerSaveEnter turns off ITM and every DLL lane so that the controller
// clock may be removed.
func (c *Controller) PowerSaveEnter() error {
	if c.state == Active {
		return &reg.InvariantViolation{
			Op:  "power save enter",
			Why: "controller is active",
		}
	}
	regs.CCR.modify(c, 0, ccrITMOff)
	for lane := 0; lane < nDLL; lane++ {
		regs.DLLCR[lane].modify(c, dllNoReset, dllOff)
	}
	return nil
}

func (c *Controller) enableDLL(lane int) {
	// hold in reset, power on, then release reset
	regs.DLLCR[lane].modify(c, dllNoReset|dllOff, dllOff)
	c.delay.Cycles(dllSettle)
	regs.DLLCR[lane].modify(c, dllNoReset|dllOff, 0)
	c.delay.Cycles(dllSettle)
	regs.DLLCR[lane].modify(c, 0, dllNoReset)
	c.delay.Cycles(dllSettle)
}

// PowerSaveExit retrains the DLLs after clocks return and runs the read
// pipe scan. The result is non-zero when training failed.
func (c *Controller) PowerSaveExit() (uint32, error) {
	if c.state == Active {
		return 0, &reg.InvariantViolation{
			Op:  "power save exit",
			Why: "controller is active",
		}
	}
	regs.CCR.modify(c, 0, ccrITMOff)
	for lane := 0; lane < nDLL; lane++ {
		c.enableDLL(lane)
	}
	regs.CCR.modify(c, ccrITMOff, 0)
	return c.scanReadPipe()
}

func (c *Controller) scanReadPipe() (uint32, error) {
	regs.CCR.modify(c, 0, ccrDataTrain)
	if err := reg.Poll(c.bus, regs.CCR.addr(c), ccrDataTrain, c.limit); err != nil {
		return 1, fmt.Errorf("%w: read pipe scan: %v",
			ErrHardwareTimeout, err)
	}
	if regs.CSR.get(c)&csrTrainErr != 0 {
		return 1, nil
	}
	return 0, nil
}
