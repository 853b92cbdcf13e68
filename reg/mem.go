// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg

import (
	"fmt"
	"sync"
)

type AccessKind uint8

const (
	Read AccessKind = iota
	Write
	Wait
)

func (k AccessKind) String() string {
	switch k {
	case Read:
		return "rd"
	case Write:
		return "wr"
	case Wait:
		return "wait"
	}
	return fmt.Sprintf("AccessKind(%d)", uint8(k))
}

// Access is one traced register or delay operation. For Wait, Addr is
// zero and Value is the delay in microseconds (cycles are recorded as is
// with Unit "cycles").
type Access struct {
	Kind  AccessKind
	Addr  uintptr
	Value uint32
	Unit  string
}

func (a Access) String() string {
	if a.Kind == Wait {
		return fmt.Sprintf("wait %d%s", a.Value, a.Unit)
	}
	return fmt.Sprintf("%s %#08x %#08x", a.Kind, a.Addr, a.Value)
}

// Mem is a sparse register file. Unwritten registers read as zero.
// OnRead and OnWrite hooks model hardware that changes a register on
// access; a hook returns the value to store (or return for reads).
type Mem struct {
	mutex   sync.Mutex
	regs    map[uintptr]uint32
	onRead  map[uintptr]func(v uint32) uint32
	onWrite map[uintptr]func(old, v uint32) uint32

	Trace   bool
	trace   []Access
	Writes  int
	Elapsed uint64 // µs
}

func NewMem() *Mem {
	return &Mem{
		regs:    make(map[uintptr]uint32),
		onRead:  make(map[uintptr]func(uint32) uint32),
		onWrite: make(map[uintptr]func(uint32, uint32) uint32),
	}
}

func (m *Mem) OnRead(addr uintptr, f func(v uint32) uint32) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.onRead[addr] = f
}

func (m *Mem) OnWrite(addr uintptr, f func(old, v uint32) uint32) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.onWrite[addr] = f
}

func (m *Mem) Read32(addr uintptr) uint32 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v := m.regs[addr]
	if f, found := m.onRead[addr]; found {
		v = f(v)
		m.regs[addr] = v
	}
	if m.Trace {
		m.trace = append(m.trace, Access{Kind: Read, Addr: addr, Value: v})
	}
	return v
}

func (m *Mem) Write32(addr uintptr, v uint32) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if f, found := m.onWrite[addr]; found {
		v = f(m.regs[addr], v)
	}
	m.regs[addr] = v
	m.Writes++
	if m.Trace {
		m.trace = append(m.trace, Access{Kind: Write, Addr: addr, Value: v})
	}
}

// Peek and Poke bypass hooks, counters and trace.
func (m *Mem) Peek(addr uintptr) uint32 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.regs[addr]
}

func (m *Mem) Poke(addr uintptr, v uint32) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.regs[addr] = v
}

func (m *Mem) wait(n uint32, unit string, us uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Elapsed += us
	if m.Trace {
		m.trace = append(m.trace, Access{Kind: Wait, Value: n, Unit: unit})
	}
}

func (m *Mem) Cycles(n uint32) { m.wait(n, "cycles", uint64(n)/1000) }
func (m *Mem) Us(n uint32)     { m.wait(n, "us", uint64(n)) }
func (m *Mem) Ms(n uint32)     { m.wait(n, "ms", uint64(n)*1000) }

// Accesses returns and resets the trace.
func (m *Mem) Accesses() []Access {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	t := m.trace
	m.trace = nil
	return t
}
