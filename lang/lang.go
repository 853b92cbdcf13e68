// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package lang selects command text by the "LANG" environment variable,
// then Default, then en_US.UTF-8.
//
// Configure the default at build,
//
//	-X github.com/platinasystems/standby/lang.Default=fr_FR.UTF-8
package lang

import "os"

const (
	DeDE = "de_DE.UTF-8"
	EnGB = "en_GB.UTF-8"
	EnUS = "en_US.UTF-8"
	FrFR = "fr_FR.UTF-8"
	ZhCN = "zh_CN.UTF-8"
)

var (
	Default = EnUS

	env string
)

type Alt map[string]string

func (m Alt) String() string {
	if len(env) == 0 {
		env = os.Getenv("LANG")
	}
	for _, lang := range []string{env, Default, EnUS} {
		if s, found := m[lang]; found {
			return s
		}
	}
	return ""
}
