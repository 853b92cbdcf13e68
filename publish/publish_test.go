// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package publish

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/google/go-cmp/cmp"
	"github.com/platinasystems/standby/standby"
	"github.com/platinasystems/standby/wakesrc"
	uuid "github.com/satori/go.uuid"
)

// conn records pipelined commands.
type conn struct {
	sent    []string
	flushed bool
	closed  bool
	err     error
}

func (c *conn) Err() error { return c.err }

func (c *conn) Close() error {
	c.closed = true
	return nil
}

func (c *conn) Flush() error {
	c.flushed = true
	return c.err
}

func (c *conn) Do(cmd string, args ...interface{}) (interface{}, error) {
	if cmd != "" {
		c.Send(cmd, args...)
	}
	return nil, c.Flush()
}

func (c *conn) Send(cmd string, args ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(append([]interface{}{cmd}, args...)))
	return nil
}

func (c *conn) Receive() (interface{}, error) { return nil, c.err }

func TestPublish(t *testing.T) {
	c := new(conn)
	p := &Publisher{
		Hash: "test",
		Dial: func() (redis.Conn, error) { return c, nil },
	}
	id := uuid.NewV4()
	err := p.Publish(standby.Result{
		ID:    id,
		Count: 3,
		Wake:  wakesrc.Of(wakesrc.ExtNMI, wakesrc.Key),
		Slept: 2 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"[HSET test standby.id " + id.String() + "]",
		"[HSET test standby.count 3]",
		"[HSET test standby.wake nmi,key]",
		"[HSET test standby.slept 2s]",
		"[HSET test standby.training 0]",
		"[HSET test standby.spurious 0]",
		"[HSET test standby.faults 0]",
		"[PUBLISH test standby.wake: nmi,key]",
	}
	if diff := cmp.Diff(want, c.sent); diff != "" {
		t.Error("(-want +got):\n", diff)
	}
	if !c.flushed || !c.closed {
		t.Error("not flushed and closed")
	}
}

func TestPublishError(t *testing.T) {
	errDown := errors.New("server down")
	c := &conn{err: errDown}
	p := &Publisher{
		Hash: "test",
		Dial: func() (redis.Conn, error) { return c, nil },
	}
	if err := p.Publish(standby.Result{}); !errors.Is(err, errDown) {
		t.Error("wrong:", err)
	}
	p.Dial = func() (redis.Conn, error) { return nil, errDown }
	if err := p.Publish(standby.Result{}); !errors.Is(err, errDown) {
		t.Error("wrong:", err)
	}
}
