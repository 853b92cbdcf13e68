// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes dispatches a multi-call executable to its named commands.
package goes

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/platinasystems/standby/cmd"
	"github.com/platinasystems/standby/lang"
)

type Goes struct {
	NAME    string
	USAGE   string
	APROPOS lang.Alt
	MAN     lang.Alt
	ByName  map[string]cmd.Cmd

	// Stdout receives helper output, os.Stdout if nil.
	Stdout io.Writer
}

type goeser interface {
	Goes(*Goes)
}

func (g *Goes) String() string { return g.NAME }

func (g *Goes) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// Names of the visible commands, sorted.
func (g *Goes) Names() []string {
	names := make([]string, 0, len(g.ByName))
	for k, v := range g.ByName {
		if !cmd.WhatKind(v).IsHidden() {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// shift drops a leading program name.
func (g *Goes) shift(args []string) []string {
	if len(args) > 0 && filepath.Base(args[0]) == g.NAME {
		return args[1:]
	}
	return args
}

// Main runs the named command. Without args it runs os.Args and exits
// non-zero on error.
func (g *Goes) Main(args ...string) (err error) {
	if len(args) == 0 {
		defer func() {
			if err != nil && err != io.EOF {
				fmt.Fprintf(os.Stderr, "%s: %v\n", g.NAME, err)
				os.Exit(1)
			}
		}()
		args = os.Args
	}
	args = g.shift(args)
	if len(args) == 0 {
		return g.usage()
	}
	cmd.Swap(args)
	name, args := args[0], args[1:]
	if f, found := helpers[name]; found {
		return f(g, args...)
	}
	v, found := g.ByName[name]
	if !found {
		return fmt.Errorf("%s: command not found", name)
	}
	if method, found := v.(goeser); found {
		method.Goes(g)
	}
	if method, found := v.(io.Closer); found {
		defer func() {
			if cerr := method.Close(); err == nil {
				err = cerr
			}
		}()
	}
	return v.Main(args...)
}
