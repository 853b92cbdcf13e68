// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package standby

import (
	"errors"
	"strings"
	"testing"

	"github.com/garyburd/redigo/redis"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/standby/publish"
	"github.com/platinasystems/standby/standby"
	"github.com/platinasystems/standby/wakesrc"
)

func request(args ...string) (standby.Request, error) {
	flag, args := flags.New(args, flagDefs...)
	parm, _ := parms.New(args, parmDefs...)
	return Request(flag, parm)
}

func TestRequest(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want standby.Request
	}{
		{
			[]string{"-nmi", "-key"},
			standby.Request{Wake: wakesrc.Of(wakesrc.ExtNMI, wakesrc.Key)},
		},
		{
			[]string{"-wake", "ir,usb"},
			standby.Request{Wake: wakesrc.Of(wakesrc.IR, wakesrc.USB)},
		},
		{
			[]string{"-usb", "-timeoff", "30"},
			standby.Request{
				Wake:           wakesrc.Of(wakesrc.USB, wakesrc.TimerOff),
				TimeoffSeconds: 30,
			},
		},
		{
			[]string{"-key", "-timeoff", "0"},
			standby.Request{Wake: wakesrc.Of(wakesrc.Key)},
		},
		{
			[]string{"-timeoff", "4194303"},
			standby.Request{
				Wake:           wakesrc.Of(wakesrc.TimerOff),
				TimeoffSeconds: wakesrc.MaxTimeoff,
			},
		},
	} {
		got, err := request(tc.args...)
		if err != nil {
			t.Errorf("%v: %v", tc.args, err)
		} else if got != tc.want {
			t.Errorf("%v: wrong: %+v", tc.args, got)
		}
	}
	for _, args := range [][]string{
		{"-wake", "sun"},
		{"-timeoff", "soon"},
		{"-timeoff", "4194304"},
		{"-timeoff", "4294967295"},
	} {
		if _, err := request(args...); err == nil {
			t.Errorf("%v: no error", args)
		}
	}
}

func TestMainSimulated(t *testing.T) {
	dials := 0
	c := &Command{
		Publisher: &publish.Publisher{
			Hash: "test",
			Dial: func() (redis.Conn, error) {
				dials++
				return nil, errors.New("no server")
			},
		},
	}
	if err := c.Main("-dry-run", "-key", "-power-save"); err != nil {
		t.Fatal(err)
	}
	if dials != 1 {
		t.Error("wrong dials:", dials)
	}
	if err := c.Main("-sim", "-timeoff", "2", "-no-publish"); err != nil {
		t.Fatal(err)
	}
	if dials != 1 {
		t.Error("published with -no-publish")
	}
	if err := c.Main("-sim"); err == nil {
		t.Error("no error without wake source")
	}
}

func TestMainNeedsTarget(t *testing.T) {
	c := &Command{}
	for _, args := range [][]string{
		{"-key", "-no-publish"},
		{"-key", "-no-publish", "-sim", "-hardware"},
	} {
		err := c.Main(args...)
		if err == nil || !strings.Contains(err.Error(), "-hardware") {
			t.Errorf("%v: wrong: %v", args, err)
		}
	}
}

func TestFormat(t *testing.T) {
	s := Format(standby.Result{
		Wake:     wakesrc.Of(wakesrc.Key),
		Spurious: 1,
		Faults:   []error{errors.New("oops")},
	})
	for _, want := range []string{
		"wake: key\n",
		"spurious: 1\n",
		"fault: oops\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in %q", want, s)
		}
	}
}

func TestComplete(t *testing.T) {
	got := (*Command)(nil).Complete("-d")
	want := []string{"-dry-run", "-debug", "-dtb"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Error("wrong:", got)
	}
}
