// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"strings"
)

// helpers run in place of a command, by name or as COMMAND -HELPER.
var helpers = map[string]func(*Goes, ...string) error{
	"apropos":  (*Goes).apropos,
	"complete": (*Goes).complete,
	"help":     (*Goes).help,
	"man":      (*Goes).man,
	"usage":    (*Goes).usage,
}

type Usager interface {
	Usage() string
}

type helper interface {
	Help(...string) string
}

// Usage is the one line reminder of v's synopsis.
func Usage(v Usager) string {
	return "usage:\t" + strings.TrimSpace(v.Usage())
}

func (g *Goes) Usage() string {
	if len(g.USAGE) > 0 {
		return g.USAGE
	}
	return fmt.Sprintf(`
	%[1]s COMMAND [ ARGS ]...
	%[1]s COMMAND -[-]HELPER [ ARGS ]...
	%[1]s HELPER [ COMMAND ] [ ARGS ]...

	HELPER := { %[2]s }`, g.NAME, strings.Join(helperNames, " | "))
}

// Help defers to the command's own Help, if any, then to its usage.
func (g *Goes) Help(args ...string) string {
	if len(args) == 0 {
		return Usage(g)
	}
	v, found := g.ByName[args[0]]
	if !found {
		return Usage(g)
	}
	if method, found := v.(helper); found {
		return method.Help(args[1:]...)
	}
	return Usage(v)
}

func (g *Goes) help(args ...string) error {
	if s := g.Help(args...); len(s) > 0 {
		fmt.Fprintln(g.stdout(), s)
	}
	return nil
}

func (g *Goes) usage(args ...string) error {
	var v Usager = g
	if len(args) > 0 {
		c, found := g.ByName[args[0]]
		if !found {
			return fmt.Errorf("%s: not found", args[0])
		}
		v = c
	}
	fmt.Fprintln(g.stdout(), Usage(v))
	return nil
}
