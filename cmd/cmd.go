// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cmd defines what the goes dispatcher needs of a command.
package cmd

import (
	"strings"

	"github.com/platinasystems/standby/lang"
)

var Helpers = map[string]struct{}{
	"apropos":  struct{}{},
	"complete": struct{}{},
	"help":     struct{}{},
	"man":      struct{}{},
	"usage":    struct{}{},
}

// Swap hyphen prefaced helper flags with command, so,
//
//	COMMAND -[-]HELPER [ARGS]...
//
// becomes
//
//	HELPER COMMAND [ARGS]...
func Swap(args []string) {
	if len(args) > 1 && strings.HasPrefix(args[1], "-") {
		opt := strings.TrimLeft(args[1], "-")
		if _, found := Helpers[opt]; found {
			args[1] = args[0]
			args[0] = opt
		}
	}
}

type Cmd interface {
	Apropos() lang.Alt
	Main(...string) error
	// String returns the command name.
	String() string
	Usage() string
	/* Optional
	Close() error
	Complete(...string) []string
	Help(...string) string
	Kind() Kind
	Man() lang.Alt
	*/
}
