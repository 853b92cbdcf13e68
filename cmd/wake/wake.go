// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package wake provides a command listing the standby wake sources.
package wake

import (
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/standby/internal/board"
	"github.com/platinasystems/standby/lang"
	"github.com/platinasystems/standby/wakesrc"
)

type Command struct{}

func (Command) String() string { return "wake" }

func (Command) Usage() string { return "wake [-sim] [-dtb FILE]" }

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "list standby wake sources",
	}
}

func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-sim")
	parm, args := parms.New(args, "-dtb")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	b, err := board.Open(board.Options{
		DTB:      parm.ByName["-dtb"],
		Simulate: flag.ByName["-sim"],
	})
	if err != nil {
		return err
	}
	defer b.Close()
	m := wakesrc.New(b.Bus, wakesrc.Config{
		INTC:  b.Bases.INTC,
		Timer: b.Bases.Timer,
		LRADC: b.Bases.LRADC,
	})
	List(os.Stdout, m)
	return nil
}

// List each source with its interrupt line and pending level.
func List(w io.Writer, m *wakesrc.Manager) {
	for _, src := range wakesrc.All.Sources() {
		level := "high"
		if !m.Query(src) {
			level = "low"
		}
		fmt.Fprintf(w, "%-8s irq %2d pending %s\n", src, src.Line(), level)
	}
}
