// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the goes machine for Allwinner A10 (sun4i) standby.
package main

import (
	"github.com/platinasystems/standby/cmd"
	"github.com/platinasystems/standby/cmd/dramc"
	"github.com/platinasystems/standby/cmd/standby"
	"github.com/platinasystems/standby/cmd/vsense"
	"github.com/platinasystems/standby/cmd/wake"
	"github.com/platinasystems/standby/goes"
	"github.com/platinasystems/standby/lang"
)

func Goes() *goes.Goes {
	return &goes.Goes{
		NAME: "goes-sun4i",
		APROPOS: lang.Alt{
			lang.EnUS: "sun4i standby machine",
		},
		ByName: map[string]cmd.Cmd{
			"dramc":   dramc.Command{},
			"standby": &standby.Command{},
			"vsense":  vsense.Command{},
			"wake":    wake.Command{},
		},
	}
}

func main() {
	Goes().Main()
}
