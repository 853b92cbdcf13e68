// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package publish records standby results in a redis hash and announces
// each on the hash's channel.
package publish

import (
	"fmt"
	"net"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/platinasystems/standby/standby"
)

const rdtimeout = 10 * time.Second
const wrtimeout = 500 * time.Millisecond

const DefaultHash = "platina"
const DefaultSocket = "/run/goes/socks/redisd"

type Publisher struct {
	Hash string
	Dial func() (redis.Conn, error)
}

// Unix dials the redis server's file socket.
func Unix(path string) func() (redis.Conn, error) {
	return func() (redis.Conn, error) {
		conn, err := net.DialTimeout("unix", path, wrtimeout)
		if err != nil {
			return nil, err
		}
		return redis.NewConn(conn, rdtimeout, wrtimeout), nil
	}
}

func New() *Publisher {
	return &Publisher{
		Hash: DefaultHash,
		Dial: Unix(DefaultSocket),
	}
}

// Fields of a result as hash field, value pairs.
func Fields(res standby.Result) [][2]string {
	return [][2]string{
		{"standby.id", res.ID.String()},
		{"standby.count", fmt.Sprint(res.Count)},
		{"standby.wake", res.Wake.String()},
		{"standby.slept", res.Slept.String()},
		{"standby.training", fmt.Sprint(res.Training)},
		{"standby.spurious", fmt.Sprint(res.Spurious)},
		{"standby.faults", fmt.Sprint(len(res.Faults))},
	}
}

func (p *Publisher) Publish(res standby.Result) error {
	conn, err := p.Dial()
	if err != nil {
		return err
	}
	defer conn.Close()
	for _, f := range Fields(res) {
		if err = conn.Send("HSET", p.Hash, f[0], f[1]); err != nil {
			return err
		}
	}
	err = conn.Send("PUBLISH", p.Hash,
		fmt.Sprint("standby.wake: ", res.Wake))
	if err != nil {
		return err
	}
	_, err = conn.Do("")
	return err
}
