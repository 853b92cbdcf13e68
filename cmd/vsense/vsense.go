// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package vsense provides a command to read and set the PMU supply rails.
package vsense

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/standby/internal/board"
	"github.com/platinasystems/standby/lang"
	"github.com/platinasystems/standby/pmu"
)

type Command struct{}

func (Command) String() string { return "vsense" }

func (Command) Usage() string {
	return "vsense [-sim] [-i2c BUS.ADDR] [RAIL [MILLIVOLTS]]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "read or set PMU supply rails",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the vcc, core and dram rails of the AXP209 PMU, or the
	named RAIL. With MILLIVOLTS, set the rail first; the value is
	rounded down to the regulator's 25mV step.`,
	}
}

func (Command) Complete(args ...string) []string {
	if len(args) == 1 {
		var c []string
		for r := pmu.Rail(0); r < pmu.NRails; r++ {
			c = append(c, r.String())
		}
		return c
	}
	return nil
}

func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-sim")
	parm, args := parms.New(args, "-i2c")
	b, err := board.Open(board.Options{
		I2C:      parm.ByName["-i2c"],
		Simulate: flag.ByName["-sim"],
	})
	if err != nil {
		return err
	}
	defer b.Close()
	return Run(os.Stdout, b.Rails, args...)
}

// Run the command arguments on the PMU.
func Run(w io.Writer, p pmu.Provider, args ...string) error {
	rails := []pmu.Rail{pmu.VCC, pmu.Core, pmu.DRAM}
	switch len(args) {
	case 0:
	case 1, 2:
		r, err := pmu.ParseRail(args[0])
		if err != nil {
			return err
		}
		rails = []pmu.Rail{r}
		if len(args) == 2 {
			mv, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("MILLIVOLTS %s: %v", args[1], err)
			}
			if err = p.SetVoltage(r, mv); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%v: unexpected", args[2:])
	}
	for _, r := range rails {
		mv, err := p.Voltage(r)
		if err != nil {
			return fmt.Errorf("%v: %w", r, err)
		}
		fmt.Fprintf(w, "%s: %d mV\n", r, mv)
	}
	return nil
}
