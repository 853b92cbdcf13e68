// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package wake

import (
	"bytes"
	"testing"

	"github.com/platinasystems/standby/reg"
	"github.com/platinasystems/standby/wakesrc"
)

func TestList(t *testing.T) {
	const intc = 0x01c20400
	m := reg.NewMem()
	m.Poke(intc+0x10, 1<<31)
	buf := new(bytes.Buffer)
	List(buf, wakesrc.New(m, wakesrc.Config{INTC: intc}))
	want := `nmi      irq  0 pending low
key      irq 31 pending high
ir       irq  5 pending low
usb      irq 38 pending low
timeoff  irq 22 pending low
`
	if s := buf.String(); s != want {
		t.Errorf("wrong:\n%s", s)
	}
}
