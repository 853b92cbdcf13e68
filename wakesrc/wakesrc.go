// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package wakesrc arms, queries and disarms the interrupt lines allowed to
// wake the sun4i from standby.
package wakesrc

import (
	"fmt"
	"strings"

	"github.com/platinasystems/standby/reg"
)

type Source uint8

const (
	ExtNMI Source = iota
	Key
	IR
	USB
	TimerOff
	nSources
)

var names = [nSources]string{
	ExtNMI:   "nmi",
	Key:      "key",
	IR:       "ir",
	USB:      "usb",
	TimerOff: "timeoff",
}

var lines = [nSources]uint{
	ExtNMI:   irqNMI,
	Key:      irqLRADC,
	IR:       irqIR0,
	USB:      irqUSB0,
	TimerOff: irqTimer0,
}

func (s Source) String() string {
	if s < nSources {
		return names[s]
	}
	return fmt.Sprintf("Source(%d)", uint8(s))
}

// Line is the source's interrupt controller line.
func (s Source) Line() uint { return lines[s] }

// Set is a set of sources.
type Set uint8

// All is every known source.
const All = Set(1<<nSources - 1)

func (s Set) Has(src Source) bool { return s&(1<<src) != 0 }
func (s Set) Add(src Source) Set  { return s | 1<<src }
func (s Set) Del(src Source) Set  { return s &^ (1 << src) }
func (s Set) Empty() bool         { return s == 0 }
func (s Set) SubsetOf(x Set) bool { return s&^x == 0 }

func Of(srcs ...Source) Set {
	var s Set
	for _, src := range srcs {
		s = s.Add(src)
	}
	return s
}

func (s Set) Sources() []Source {
	var srcs []Source
	for src := Source(0); src < nSources; src++ {
		if s.Has(src) {
			srcs = append(srcs, src)
		}
	}
	return srcs
}

func (s Set) String() string {
	var l []string
	for _, src := range s.Sources() {
		l = append(l, src.String())
	}
	return strings.Join(l, ",")
}

// Parse a comma separated list of source names.
func Parse(list string) (Set, error) {
	var s Set
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if len(name) == 0 {
			continue
		}
		found := false
		for src := Source(0); src < nSources; src++ {
			if names[src] == name {
				s = s.Add(src)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%s: unknown wake source", name)
		}
	}
	return s, nil
}

type Config struct {
	INTC  uintptr
	Timer uintptr
	LRADC uintptr
}

type Manager struct {
	bus     reg.Bus
	cfg     Config
	enabled Set
}

func New(bus reg.Bus, cfg Config) *Manager {
	return &Manager{bus: bus, cfg: cfg}
}

// Enable unmasks and enables the source's line.
func (m *Manager) Enable(src Source) {
	i, bit := bank(src.Line())
	reg.Modify(m.bus, m.intcAddr(&intc.Mask[i]), bit, 0)
	reg.Modify(m.bus, m.intcAddr(&intc.Enable[i]), 0, bit)
	m.enabled = m.enabled.Add(src)
}

func (m *Manager) Disable(src Source) {
	i, bit := bank(src.Line())
	reg.Modify(m.bus, m.intcAddr(&intc.Enable[i]), bit, 0)
	reg.Modify(m.bus, m.intcAddr(&intc.Mask[i]), 0, bit)
	m.enabled = m.enabled.Del(src)
}

// Query returns the source's pending bit.
func (m *Manager) Query(src Source) bool {
	i, bit := bank(src.Line())
	return m.bus.Read32(m.intcAddr(&intc.Pend[i]))&bit != 0
}

func (m *Manager) Enabled() Set { return m.enabled }

// ArmTimerWake starts a single shot timer of the given seconds and
// enables TimerOff. Zero seconds, or more than MaxTimeoff, arms nothing.
func (m *Manager) ArmTimerWake(seconds uint32) bool {
	if seconds == 0 || seconds > MaxTimeoff {
		return false
	}
	ctrl := m.timerAddr(&timer.Tmr0Ctrl)
	m.bus.Write32(ctrl, 0)
	m.bus.Write32(m.timerAddr(&timer.Tmr0Intvl), seconds*ticksPerSecond)
	m.bus.Write32(m.timerAddr(&timer.IRQSta), tmr0IRQ)
	reg.Modify(m.bus, m.timerAddr(&timer.IRQEn), 0, tmr0IRQ)
	m.bus.Write32(ctrl, tmrSrcLOSC|tmrPrescale32|tmrSingleShot)
	m.bus.Write32(ctrl, tmrSrcLOSC|tmrPrescale32|tmrSingleShot|
		tmrReload|tmrEnable)
	m.Enable(TimerOff)
	return true
}

func (m *Manager) StopTimer() {
	reg.Modify(m.bus, m.timerAddr(&timer.Tmr0Ctrl), tmrEnable, 0)
	reg.Modify(m.bus, m.timerAddr(&timer.IRQEn), tmr0IRQ, 0)
	m.bus.Write32(m.timerAddr(&timer.IRQSta), tmr0IRQ)
}

// ClearKeyPending acknowledges stale LRADC key events, both in the LRADC
// and at its interrupt controller line.
func (m *Manager) ClearKeyPending() {
	m.bus.Write32(m.lradcAddr(&lradc.IntS), 0xffffffff)
	i, bit := bank(Key.Line())
	m.bus.Write32(m.intcAddr(&intc.Pend[i]), bit)
}

// Arm enables each requested source, timer policy included, and returns
// those actually enabled.
func (m *Manager) Arm(s Set, timeoffSeconds uint32) Set {
	var armed Set
	for _, src := range s.Sources() {
		if src == TimerOff {
			if m.ArmTimerWake(timeoffSeconds) {
				armed = armed.Add(src)
			}
			continue
		}
		m.Enable(src)
		armed = armed.Add(src)
	}
	return armed
}

func (m *Manager) Disarm(s Set) {
	for _, src := range s.Sources() {
		if src == TimerOff {
			m.StopTimer()
		}
		m.Disable(src)
	}
}

// Fired returns the sources of s whose pending bit reads clear. The
// controller acknowledges the line that woke the core, so a clear bit is
// taken as that source having fired.
func (m *Manager) Fired(s Set) Set {
	var fired Set
	for _, src := range s.Sources() {
		if !m.Query(src) {
			fired = fired.Add(src)
		}
	}
	return fired
}
