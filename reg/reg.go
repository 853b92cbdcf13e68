// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package reg provides 32-bit access to memory mapped control registers
// along with the delay and polling primitives used by the standby drivers.
package reg

import (
	"errors"
	"fmt"
)

// Infinite is the Poll limit that never gives up.
const Infinite = 0

var ErrTimeout = errors.New("register poll timeout")

// Bus reads and writes 32-bit registers at physical addresses. Accesses
// have no side effects beyond the named register.
type Bus interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, v uint32)
}

// Delay busy waits. Cycles are platform delay-loop iterations.
type Delay interface {
	Cycles(n uint32)
	Us(n uint32)
	Ms(n uint32)
}

// Modify clears then sets bits of the register at addr and returns the
// value written.
func Modify(bus Bus, addr uintptr, clear, set uint32) uint32 {
	v := bus.Read32(addr)
	v &^= clear
	v |= set
	bus.Write32(addr, v)
	return v
}

// Poll reads addr until all mask bits are clear. With limit == Infinite it
// never returns an error.
func Poll(bus Bus, addr uintptr, mask uint32, limit int) error {
	for i := 0; limit == Infinite || i < limit; i++ {
		if bus.Read32(addr)&mask == 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: %#08x & %#08x after %d reads",
		ErrTimeout, addr, mask, limit)
}

// Field extracts width bits at shift.
func Field(v uint32, shift, width uint) uint32 {
	return (v >> shift) & (1<<width - 1)
}

// InvariantViolation reports a call that would break a hardware ordering
// rule. Nothing is written when it is returned.
type InvariantViolation struct {
	Op  string
	Why string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: invariant violation: %s", v.Op, v.Why)
}
