// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package board

import (
	"github.com/platinasystems/standby/pmu"
	"github.com/platinasystems/standby/reg"
	"github.com/platinasystems/standby/sun4i"
)

func open(bases sun4i.Bases, axp *pmu.AXP209) (*Board, error) {
	mem, err := reg.OpenDevMem(sun4i.WindowSize, bases.All()...)
	if err != nil {
		return nil, err
	}
	cpu := &PollCPU{
		Bus:      mem,
		INTC:     bases.INTC,
		Interval: DefaultPollInterval,
	}
	return &Board{
		Bases: bases,
		Bus:   cpu,
		Delay: reg.HostDelay{},
		Rails: axp,
		CPU:   cpu,
		close: mem.Close,
	}, nil
}
