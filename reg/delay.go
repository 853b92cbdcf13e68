// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg

import "time"

// HostDelay sleeps for µs and ms delays and spins for cycle delays.
type HostDelay struct{}

var spin uint32

func (HostDelay) Cycles(n uint32) {
	for i := uint32(0); i < n; i++ {
		spin++
	}
}

func (HostDelay) Us(n uint32) { time.Sleep(time.Duration(n) * time.Microsecond) }
func (HostDelay) Ms(n uint32) { time.Sleep(time.Duration(n) * time.Millisecond) }
