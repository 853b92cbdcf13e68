// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package standby provides the command that suspends the board until an
// armed wake source fires.
package standby

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/standby/cmd"
	"github.com/platinasystems/standby/internal/board"
	"github.com/platinasystems/standby/internal/fdtgpio"
	"github.com/platinasystems/standby/lang"
	"github.com/platinasystems/standby/publish"
	"github.com/platinasystems/standby/standby"
	"github.com/platinasystems/standby/wakesrc"
)

const DefaultDTB = "/boot/linux.dtb"

var flagDefs = []interface{}{
	"-nmi", "-key", "-ir", "-usb",
	[]string{"-sim", "-dry-run"}, "-hardware",
	"-power-save", "-debug", "-no-publish",
}

var parmDefs = []interface{}{"-timeoff", "-wake", "-dtb", "-i2c", "-led"}

var sourceFlags = map[string]wakesrc.Source{
	"-nmi": wakesrc.ExtNMI,
	"-key": wakesrc.Key,
	"-ir":  wakesrc.IR,
	"-usb": wakesrc.USB,
}

type Command struct {
	// Publisher, if set, replaces the default redis publisher.
	Publisher *publish.Publisher
}

func (*Command) String() string { return "standby" }

func (*Command) Usage() string {
	return `standby [-nmi] [-key] [-ir] [-usb] [-wake LIST] [-timeoff SECONDS]
	[-power-save] [-debug] [-no-publish] [-sim | -dry-run | -hardware]
	[-dtb FILE] [-i2c BUS.ADDR] [-led PIN]`
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "suspend to DRAM self-refresh until woken",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Put DRAM in self-refresh, drop the CPU to the 32KHz oscillator,
	lower the PMU rails then halt until one of the armed wake sources
	fires. Everything is restored before the command returns.

	The result is recorded in the redis hash as standby.id,
	standby.count, standby.wake, standby.slept and standby.training.

OPTIONS
	-nmi, -key, -ir, -usb
		Arm the external NMI, LRADC key, IR or USB wake source.
	-wake LIST
		Comma separated sources: nmi, key, ir, usb, timeoff.
	-timeoff SECONDS
		Also wake from timer 0 after the given seconds.
	-power-save
		Also stop the DRAM DLLs and retrain them on resume.
	-debug	Check the clock tree after each step.
	-no-publish
		Don't record the result in redis.
	-sim, -dry-run
		Run against the simulator; the first armed source fires.
	-hardware
		Run on the board through /dev/mem. One of -sim or
		-hardware is required.
	-dtb FILE
		Device tree for block addresses and the LED pin.
	-i2c BUS.ADDR
		AXP209 PMU location, default 0.0x34.
	-led PIN
		Drive the named gpio high while in standby.

CAVEATS
	With -hardware the cycle runs in a Linux process whose code,
	stack and heap are in DRAM. Nothing may touch memory while it is
	in self-refresh, which the process can't promise: the kernel keeps
	running, and the wait for a wake source polls the interrupt
	controller from DRAM. Use it only for bring-up, with a serial
	console to recover from.`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.DontFork | cmd.Privileged }

func (*Command) Complete(args ...string) (c []string) {
	if len(args) == 0 {
		return
	}
	prefix := args[len(args)-1]
	for _, def := range append(flagDefs, parmDefs...) {
		names, ok := def.([]string)
		if !ok {
			names = []string{def.(string)}
		}
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				c = append(c, name)
			}
		}
	}
	return
}

// Request builds the standby request from the command options.
func Request(flag *flags.Flags, parm *parms.Parms) (standby.Request, error) {
	var req standby.Request
	for name, src := range sourceFlags {
		if flag.ByName[name] {
			req.Wake = req.Wake.Add(src)
		}
	}
	if s := parm.ByName["-wake"]; len(s) > 0 {
		set, err := wakesrc.Parse(s)
		if err != nil {
			return req, err
		}
		req.Wake |= set
	}
	if s := parm.ByName["-timeoff"]; len(s) > 0 {
		secs, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return req, fmt.Errorf("-timeoff %s: %v", s, err)
		}
		if secs > wakesrc.MaxTimeoff {
			return req, fmt.Errorf("-timeoff %s: exceeds %d seconds",
				s, wakesrc.MaxTimeoff)
		}
		req.TimeoffSeconds = uint32(secs)
		if secs > 0 {
			req.Wake = req.Wake.Add(wakesrc.TimerOff)
		}
	}
	return req, nil
}

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, flagDefs...)
	parm, args := parms.New(args, parmDefs...)
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	req, err := Request(flag, parm)
	if err != nil {
		return err
	}
	if req.Wake.Empty() {
		return fmt.Errorf("no wake source")
	}
	simulate := flag.ByName["-sim"]
	if simulate == flag.ByName["-hardware"] {
		return fmt.Errorf("need one of -sim or -hardware")
	}
	b, err := board.Open(board.Options{
		DTB:      parm.ByName["-dtb"],
		I2C:      parm.ByName["-i2c"],
		Simulate: simulate,
	})
	if err != nil {
		return err
	}
	defer b.Close()
	if b.Sim != nil && req.TimeoffSeconds == 0 {
		b.Sim.Fire(req.Wake.Sources()[0])
	}

	if name := parm.ByName["-led"]; len(name) > 0 && !simulate {
		dtb := parm.ByName["-dtb"]
		if len(dtb) == 0 {
			dtb = DefaultDTB
		}
		if err = fdtgpio.Init(dtb); err != nil {
			return err
		}
		led, err := fdtgpio.Pin(name)
		if err != nil {
			return err
		}
		if err = led.SetValue(true); err != nil {
			log.Print("warn", name, ": ", err)
		}
		defer led.SetValue(false)
	}

	cfg := standby.DefaultConfig()
	cfg.Bases = b.Bases
	cfg.PowerSave = flag.ByName["-power-save"]
	cfg.Debug = flag.ByName["-debug"]
	o := standby.New(b.Bus, b.Delay, b.Rails, b.CPU, cfg)
	res, err := o.Suspend(req)
	if err != nil {
		return err
	}
	fmt.Print(Format(res))

	if flag.ByName["-no-publish"] {
		return nil
	}
	p := c.Publisher
	if p == nil {
		p = publish.New()
	}
	if err = p.Publish(res); err != nil {
		log.Print("warn", "standby publish: ", err)
	}
	return nil
}

// Format a result for the console.
func Format(res standby.Result) string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "id:", res.ID)
	fmt.Fprintln(&sb, "wake:", res.Wake)
	fmt.Fprintln(&sb, "slept:", res.Slept)
	if res.Spurious > 0 {
		fmt.Fprintln(&sb, "spurious:", res.Spurious)
	}
	if res.Training != 0 {
		fmt.Fprintln(&sb, "training: failed")
	}
	for _, err := range res.Faults {
		fmt.Fprintln(&sb, "fault:", err)
	}
	return sb.String()
}
