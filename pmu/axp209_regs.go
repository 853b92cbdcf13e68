// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pmu

const (
	DefaultBus  = 0
	DefaultAddr = 0x34
)

// regulator describes one AXP209 voltage control register.
type regulator struct {
	name  string
	reg   uint8
	mask  uint8
	min   int // mV
	step  int // mV
	steps int
}

var axp209Rails = [NRails]regulator{
	Core: {name: "dcdc2", reg: 0x23, mask: 0x3f, min: 700, step: 25, steps: 64},
	VCC:  {name: "dcdc3", reg: 0x27, mask: 0x7f, min: 700, step: 25, steps: 128},
	DRAM: {name: "ldo3", reg: 0x29, mask: 0x7f, min: 700, step: 25, steps: 128},
}

func (r *regulator) max() int { return r.min + r.step*(r.steps-1) }

func (r *regulator) decode(v uint8) int {
	return r.min + int(v&r.mask)*r.step
}

// encode quantizes down to the nearest step.
func (r *regulator) encode(mv int) (uint8, bool) {
	if mv < r.min || mv > r.max() {
		return 0, false
	}
	return uint8((mv - r.min) / r.step), true
}
