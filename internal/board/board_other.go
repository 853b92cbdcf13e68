// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

//go:build !linux

package board

import (
	"errors"

	"github.com/platinasystems/standby/pmu"
	"github.com/platinasystems/standby/sun4i"
)

func open(sun4i.Bases, *pmu.AXP209) (*Board, error) {
	return nil, errors.New("register access requires linux; try -sim")
}
