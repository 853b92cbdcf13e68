// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"

	"github.com/platinasystems/standby/lang"
)

func (g *Goes) Apropos() lang.Alt {
	apropos := g.APROPOS
	if apropos == nil {
		apropos = lang.Alt{
			lang.EnUS: "sun4i standby tools",
		}
	}
	return apropos
}

func (g *Goes) apropos(args ...string) error {
	w := g.stdout()
	if len(args) == 0 {
		args = g.Names()
	}
	for i, name := range args {
		if cmd, found := g.ByName[name]; found {
			fmt.Fprintf(w, "%-16s%s\n", name, cmd.Apropos())
		} else if i == 0 {
			return fmt.Errorf("%s: not found", name)
		}
	}
	return nil
}
