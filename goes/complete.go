// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"fmt"
	"strings"
)

type completer interface {
	Complete(...string) []string
}

var helperNames = []string{"apropos", "complete", "help", "man", "usage"}

func (g *Goes) Complete(args ...string) (completions []string) {
	n := len(args)
	switch {
	case n == 0 || len(args[0]) == 0:
		completions = g.Names()
	case n > 1:
		if v, found := g.ByName[args[0]]; found {
			if method, found := v.(completer); found {
				completions = method.Complete(args[1:]...)
			}
		}
	default:
		for _, name := range append(g.Names(), helperNames...) {
			if strings.HasPrefix(name, args[0]) {
				completions = append(completions, name)
			}
		}
	}
	return
}

// For bash completion,
//
//	_goes_sun4i() {
//		COMPREPLY=($(goes-sun4i complete ${COMP_WORDS[@]:1}))
//		return 0
//	}
//
//	complete -F _goes_sun4i goes-sun4i
func (g *Goes) complete(args ...string) error {
	for _, s := range g.Complete(args...) {
		fmt.Fprintln(g.stdout(), s)
	}
	return nil
}
