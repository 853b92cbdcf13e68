// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package sun4i describes the AllWinner A10 register blocks used by
// standby and where they are mapped.
package sun4i

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/platinasystems/fdt"
)

// Register windows are one page or less.
const WindowSize = 0x1000

// Bases are the physical addresses of each register block.
type Bases struct {
	DRAMC uintptr
	CCU   uintptr
	INTC  uintptr
	Timer uintptr
	LRADC uintptr
}

var Default = Bases{
	DRAMC: 0x01c01000,
	CCU:   0x01c20000,
	INTC:  0x01c20400,
	Timer: 0x01c20c00,
	LRADC: 0x01c22800,
}

func (b Bases) All() []uintptr {
	return []uintptr{b.DRAMC, b.CCU, b.INTC, b.Timer, b.LRADC}
}

func (b Bases) String() string {
	return fmt.Sprintf("dramc@%x ccu@%x intc@%x timer@%x lradc@%x",
		b.DRAMC, b.CCU, b.INTC, b.Timer, b.LRADC)
}

// Compatible maps device tree compatible strings to the block they
// describe.
var Compatible = map[string]func(*Bases) *uintptr{
	"allwinner,sun4i-a10-dram-controller": func(b *Bases) *uintptr { return &b.DRAMC },
	"allwinner,sun4i-a10-ccu":             func(b *Bases) *uintptr { return &b.CCU },
	"allwinner,sun4i-a10-ic":              func(b *Bases) *uintptr { return &b.INTC },
	"allwinner,sun4i-a10-timer":           func(b *Bases) *uintptr { return &b.Timer },
	"allwinner,sun4i-a10-lradc-keys":      func(b *Bases) *uintptr { return &b.LRADC },
}

// FromDTB returns Default with any block found in the flattened device
// tree file replaced by its "reg" address.
func FromDTB(fn string) (Bases, error) {
	b := Default
	buf, err := ioutil.ReadFile(fn)
	if err != nil {
		return b, err
	}
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	t.Parse(buf)
	t.EachProperty("compatible", "", func(n *fdt.Node, name, value string) {
		b.Gather(n)
	})
	return b, nil
}

// Gather updates the base of the block named by the node's compatible
// property.
func (b *Bases) Gather(n *fdt.Node) bool {
	reg, found := n.Properties["reg"]
	if !found || len(reg) < 4 {
		return false
	}
	for _, compat := range strings.Split(string(n.Properties["compatible"]), "\x00") {
		if f, found := Compatible[compat]; found {
			*f(b) = uintptr(binary.BigEndian.Uint32(reg[:4]))
			return true
		}
	}
	return false
}
