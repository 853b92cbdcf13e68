// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package lang

import "testing"

func TestAlt(t *testing.T) {
	alt := Alt{
		EnUS: "hello",
		FrFR: "bonjour",
	}
	defer func(s string) { env = s }(env)
	for _, tc := range []struct {
		env, want string
	}{
		{FrFR, "bonjour"},
		{DeDE, "hello"},
		{EnUS, "hello"},
	} {
		env = tc.env
		if s := alt.String(); s != tc.want {
			t.Errorf("%s: wrong: %q", tc.env, s)
		}
	}
}
