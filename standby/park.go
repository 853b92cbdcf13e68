// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package standby

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"
)

// CPU halts until the next interrupt.
type CPU interface {
	WaitForInterrupt()
}

// Parker runs the DRAM-off section of a cycle so that nothing else
// touches memory or the thread while it does.
type Parker interface {
	Park(body func())
}

// OSThread pins the calling goroutine to its thread and holds off the
// garbage collector for the body.
type OSThread struct {
	parked int32
}

func (p *OSThread) Park(body func()) {
	if !atomic.CompareAndSwapInt32(&p.parked, 0, 1) {
		panic("standby: nested park")
	}
	defer atomic.StoreInt32(&p.parked, 0)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	gc := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gc)
	body()
}
