// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package cmd

import "strings"

const (
	// DontFork commands must run on the dispatching thread.
	DontFork Kind = 1 << iota
	// Hidden commands are left out of apropos.
	Hidden
	// Privileged commands map physical memory.
	Privileged
)

func WhatKind(v Cmd) Kind {
	if m, found := v.(kinder); found {
		return m.Kind()
	}
	return 0
}

type kinder interface {
	Kind() Kind
}

type Kind uint16

func (k Kind) IsDontFork() bool   { return k&DontFork == DontFork }
func (k Kind) IsHidden() bool     { return k&Hidden == Hidden }
func (k Kind) IsPrivileged() bool { return k&Privileged == Privileged }

func (k Kind) String() string {
	var l []string
	for _, x := range []struct {
		k Kind
		s string
	}{
		{DontFork, "don't fork"},
		{Hidden, "hidden"},
		{Privileged, "privileged"},
	} {
		if k&x.k == x.k {
			l = append(l, x.s)
		}
	}
	if len(l) == 0 {
		return "default"
	}
	return strings.Join(l, ", ")
}
