// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package pmu

import (
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/i2c"
	"github.com/platinasystems/log"
)

// SMBus transfers one byte register. *AXP209 uses the Linux i2c-dev bus
// unless one is given.
type SMBus interface {
	ReadByte(reg uint8) (uint8, error)
	WriteByte(reg, v uint8) error
}

// AXP209 is the X-Powers PMU on the first TWI bus of A10 boards.
type AXP209 struct {
	Bus  int
	Addr int
	// Retries of a failed transfer, with back-off between attempts.
	Retries int
	// SMBus overrides i2c-dev access.
	SMBus SMBus
}

type i2cDev struct {
	bus, addr int
}

func (d i2cDev) do(rw i2c.RW, reg uint8, data *i2c.SMBusData) error {
	var bus i2c.Bus
	if err := bus.Open(d.bus); err != nil {
		return err
	}
	defer bus.Close()
	if err := bus.ForceSlaveAddress(d.addr); err != nil {
		return err
	}
	return bus.Do(rw, reg, i2c.ByteData, data)
}

func (d i2cDev) ReadByte(reg uint8) (uint8, error) {
	var data i2c.SMBusData
	err := d.do(i2c.Read, reg, &data)
	return data[0], err
}

func (d i2cDev) WriteByte(reg, v uint8) error {
	var data i2c.SMBusData
	data[0] = v
	return d.do(i2c.Write, reg, &data)
}

func (h *AXP209) smbus() SMBus {
	if h.SMBus != nil {
		return h.SMBus
	}
	return i2cDev{bus: h.Bus, addr: h.Addr}
}

func (h *AXP209) retry(what string, f func() error) error {
	b := &backoff.Backoff{
		Min:    time.Millisecond,
		Max:    20 * time.Millisecond,
		Factor: 2,
		Jitter: false,
	}
	err := f()
	for i := 0; err != nil && i < h.Retries; i++ {
		d := b.Duration()
		log.Print("warn", "axp209 ", what, ": ", err, ", retry in ", d)
		time.Sleep(d)
		err = f()
	}
	return err
}

func (h *AXP209) Voltage(r Rail) (int, error) {
	if r >= NRails {
		return 0, fmt.Errorf("%v: %w", r, ErrRange)
	}
	reg := &axp209Rails[r]
	var v uint8
	err := h.retry("read "+reg.name, func() (err error) {
		v, err = h.smbus().ReadByte(reg.reg)
		return
	})
	if err != nil {
		return 0, fmt.Errorf("axp209 %s: %w", reg.name, err)
	}
	return reg.decode(v), nil
}

// SetVoltage keeps the bits of the control register outside the voltage
// field.
func (h *AXP209) SetVoltage(r Rail, mv int) error {
	if r >= NRails {
		return fmt.Errorf("%v: %w", r, ErrRange)
	}
	reg := &axp209Rails[r]
	n, ok := reg.encode(mv)
	if !ok {
		return fmt.Errorf("axp209 %s %dmV: %w", reg.name, mv, ErrRange)
	}
	var v uint8
	err := h.retry("read "+reg.name, func() (err error) {
		v, err = h.smbus().ReadByte(reg.reg)
		return
	})
	if err != nil {
		return fmt.Errorf("axp209 %s: %w", reg.name, err)
	}
	v = v&^reg.mask | n
	err = h.retry("write "+reg.name, func() error {
		return h.smbus().WriteByte(reg.reg, v)
	})
	if err != nil {
		return fmt.Errorf("axp209 %s: %w", reg.name, err)
	}
	return nil
}
