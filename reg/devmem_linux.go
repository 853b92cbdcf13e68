// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package reg

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const DevMemFile = "/dev/mem"

type window struct {
	base uintptr
	mem  []byte
}

// DevMem maps physical register windows through /dev/mem. Access outside
// of a mapped window panics.
type DevMem struct {
	f       *os.File
	windows []window
}

// OpenDevMem maps a page aligned window of size bytes at each base.
func OpenDevMem(size int, bases ...uintptr) (*DevMem, error) {
	f, err := os.OpenFile(DevMemFile, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	d := &DevMem{f: f}
	pagemask := uintptr(os.Getpagesize() - 1)
	for _, base := range bases {
		page := base &^ pagemask
		n := int(base-page) + size
		n = (n + int(pagemask)) &^ int(pagemask)
		mem, err := unix.Mmap(int(f.Fd()), int64(page), n,
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("mmap %#08x: %w", page, err)
		}
		d.windows = append(d.windows, window{base: page, mem: mem})
	}
	return d, nil
}

func (d *DevMem) Close() error {
	for _, w := range d.windows {
		unix.Munmap(w.mem)
	}
	d.windows = nil
	return d.f.Close()
}

func (d *DevMem) ptr(addr uintptr) *uint32 {
	for _, w := range d.windows {
		if addr >= w.base && addr+4 <= w.base+uintptr(len(w.mem)) {
			return (*uint32)(unsafe.Pointer(&w.mem[addr-w.base]))
		}
	}
	panic(fmt.Errorf("%#08x: not mapped", addr))
}

func (d *DevMem) Read32(addr uintptr) uint32 {
	return atomic.LoadUint32(d.ptr(addr))
}

func (d *DevMem) Write32(addr uintptr, v uint32) {
	atomic.StoreUint32(d.ptr(addr), v)
}
