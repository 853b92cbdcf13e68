// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package dramc provides a command to show and set DRAM controller host
// port arbitration.
package dramc

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/standby/cmd"
	"github.com/platinasystems/standby/dramc"
	"github.com/platinasystems/standby/internal/board"
	"github.com/platinasystems/standby/lang"
)

type Command struct{}

func (Command) String() string { return "dramc" }

func (Command) Usage() string {
	return "dramc [-sim] [-dtb FILE] [PORT [on | off | PRIORITY WAIT CMDCOUNT]]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "show or set DRAM controller host ports",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Without arguments, list each of the 32 host ports with its gate,
	FIFO status and arbitration settings.

	PORT on | off
		Open or close the port's gate.
	PORT PRIORITY WAIT CMDCOUNT
		Set the port's priority (0-3), wait cycles (0-15) and
		command count (0-255).`,
	}
}

func (Command) Kind() cmd.Kind { return cmd.Privileged }

func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-sim")
	parm, args := parms.New(args, "-dtb")
	b, err := board.Open(board.Options{
		DTB:      parm.ByName["-dtb"],
		Simulate: flag.ByName["-sim"],
	})
	if err != nil {
		return err
	}
	defer b.Close()
	c := dramc.New(b.Bus, b.Delay, dramc.Config{Base: b.Bases.DRAMC})
	return Run(os.Stdout, c, args...)
}

func parse(name, s string, max uint64) (uint64, error) {
	u, err := strconv.ParseUint(s, 0, 64)
	if err == nil && u > max {
		err = fmt.Errorf("out of range 0-%d", max)
	}
	if err != nil {
		return 0, fmt.Errorf("%s %s: %v", name, s, err)
	}
	return u, nil
}

// Run the command arguments on the controller.
func Run(w io.Writer, c *dramc.Controller, args ...string) error {
	if len(args) == 0 {
		for port := uint(0); port < dramc.Ports; port++ {
			show(w, c, port)
		}
		return nil
	}
	port, err := parse("PORT", args[0], dramc.Ports-1)
	if err != nil {
		return err
	}
	args = args[1:]
	switch len(args) {
	case 0:
	case 1:
		switch args[0] {
		case "on":
			c.SetHostPortGate(uint(port), true)
		case "off":
			c.SetHostPortGate(uint(port), false)
		default:
			return fmt.Errorf("%s: neither on nor off", args[0])
		}
	case 3:
		var v [3]uint64
		for i, x := range []struct {
			name string
			max  uint64
		}{
			{"PRIORITY", 3},
			{"WAIT", 15},
			{"CMDCOUNT", 255},
		} {
			if v[i], err = parse(x.name, args[i], x.max); err != nil {
				return err
			}
		}
		c.ConfigureHostPort(uint(port), dramc.HostPort{
			Priority:   uint8(v[0]),
			WaitCycles: uint8(v[1]),
			CmdCount:   uint8(v[2]),
		})
	default:
		return fmt.Errorf("%v: unexpected", args)
	}
	show(w, c, uint(port))
	return nil
}

func show(w io.Writer, c *dramc.Controller, port uint) {
	gate := "off"
	if c.HostPortGate(port) {
		gate = "on"
	}
	fifo := "busy"
	if c.HostPortFifoEmpty(port) {
		fifo = "empty"
	}
	cfg, _ := c.HostPortConfig(port)
	fmt.Fprintf(w, "%2d: gate %-3s fifo %-5s %v\n", port, gate, fifo, cfg)
}
