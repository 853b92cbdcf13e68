// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package pmu provides the adjustable supply rails used through standby.
package pmu

import (
	"errors"
	"fmt"
	"sync"
)

var ErrRange = errors.New("voltage out of range")

type Rail uint8

const (
	VCC Rail = iota
	Core
	DRAM
	NRails
)

func (r Rail) String() string {
	switch r {
	case VCC:
		return "vcc"
	case Core:
		return "core"
	case DRAM:
		return "dram"
	}
	return fmt.Sprintf("Rail(%d)", uint8(r))
}

// ParseRail is the inverse of Rail.String.
func ParseRail(s string) (Rail, error) {
	for r := Rail(0); r < NRails; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%s: unknown rail", s)
}

// Provider gets and sets rail millivolts.
type Provider interface {
	Voltage(Rail) (int, error)
	SetVoltage(Rail, int) error
}

// Rails is an in-memory Provider. Log, if set, receives every set.
type Rails struct {
	mutex sync.Mutex
	mv    [NRails]int
	Log   func(r Rail, mv int)
}

func NewRails(vcc, core, dram int) *Rails {
	return &Rails{mv: [NRails]int{vcc, core, dram}}
}

func (p *Rails) Voltage(r Rail) (int, error) {
	if r >= NRails {
		return 0, fmt.Errorf("%v: %w", r, ErrRange)
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.mv[r], nil
}

func (p *Rails) SetVoltage(r Rail, mv int) error {
	if r >= NRails {
		return fmt.Errorf("%v: %w", r, ErrRange)
	}
	p.mutex.Lock()
	p.mv[r] = mv
	p.mutex.Unlock()
	if p.Log != nil {
		p.Log(r, mv)
	}
	return nil
}
