// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package sun4i

import (
	"testing"

	"github.com/platinasystems/fdt"
)

func node(compat string, reg ...byte) *fdt.Node {
	return &fdt.Node{
		Name: "n",
		Properties: map[string][]byte{
			"compatible": []byte(compat + "\x00"),
			"reg":        reg,
		},
	}
}

func TestGather(t *testing.T) {
	b := Default
	if !b.Gather(node("allwinner,sun4i-a10-dram-controller",
		0x01, 0xc0, 0x20, 0x00, 0x00, 0x00, 0x10, 0x00)) {
		t.Fatal("not gathered")
	}
	if b.DRAMC != 0x01c02000 {
		t.Errorf("wrong: %#x", b.DRAMC)
	}
	if b.CCU != Default.CCU {
		t.Errorf("wrong: %#x", b.CCU)
	}
}

func TestGatherMultiCompatible(t *testing.T) {
	b := Default
	if !b.Gather(node("vendor,thing\x00allwinner,sun4i-a10-timer",
		0x01, 0xc2, 0x0d, 0x00)) {
		t.Fatal("not gathered")
	}
	if b.Timer != 0x01c20d00 {
		t.Errorf("wrong: %#x", b.Timer)
	}
}

func TestGatherIgnores(t *testing.T) {
	b := Default
	if b.Gather(node("allwinner,sun4i-a10-ccu", 0x01)) {
		t.Error("short reg gathered")
	}
	if b.Gather(node("allwinner,sun7i-a20-ccu", 0, 0, 0, 0)) {
		t.Error("unknown compatible gathered")
	}
	if b != Default {
		t.Error("modified:", b)
	}
}
