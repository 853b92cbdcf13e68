// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"io"
	"strings"

	"github.com/platinasystems/standby/cmd"
	"github.com/platinasystems/standby/lang"
)

type maner interface {
	Man() lang.Alt
}

var (
	nameHeading = lang.Alt{
		lang.EnUS: "NAME",
		lang.FrFR: "NOM",
	}
	synopsisHeading = lang.Alt{
		lang.EnUS: "SYNOPSIS",
	}
	privilegedNote = lang.Alt{
		lang.EnUS: `
PRIVILEGES
	Maps SoC registers through /dev/mem, so must run as root.`,
	}
)

// Man lists the machine's commands unless MAN is set.
func (g *Goes) Man() lang.Alt {
	if g.MAN != nil {
		return g.MAN
	}
	return lang.Alt{
		lang.EnUS: fmt.Sprint(`
COMMANDS
	`, strings.Join(g.Names(), ", "), `

SEE ALSO
	apropos [COMMAND], man COMMAND`),
	}
}

// writePage renders the NAME and SYNOPSIS of v from its apropos and
// usage, then its own page, then a note if it's privileged.
func writePage(w io.Writer, v cmd.Cmd) {
	fmt.Fprintf(w, "%s\n\t%s - %s\n\n%s\n\t%s\n",
		nameHeading, v, v.Apropos(),
		synopsisHeading, strings.TrimSpace(v.Usage()))
	if method, found := v.(maner); found {
		writeSection(w, method.Man())
	}
	if cmd.WhatKind(v).IsPrivileged() {
		writeSection(w, privilegedNote)
	}
}

// writeSection sets text off by one blank line.
func writeSection(w io.Writer, text lang.Alt) {
	fmt.Fprint(w, "\n", strings.Trim(text.String(), "\n"), "\n")
}

func (g *Goes) man(args ...string) error {
	pages := []cmd.Cmd{g}
	if len(args) > 0 {
		pages = pages[:0]
		for _, name := range args {
			v, found := g.ByName[name]
			if !found {
				return fmt.Errorf("%s: not found", name)
			}
			pages = append(pages, v)
		}
	}
	w := g.stdout()
	for i, v := range pages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writePage(w, v)
	}
	return nil
}
