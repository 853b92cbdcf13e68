// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package fdtgpio builds the gpio pin map from a flattened device tree.
package fdtgpio

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/platinasystems/fdt"
	"github.com/platinasystems/gpio"
)

// Build map of gpio pins for this gpio controller
func GatherAliases(n *fdt.Node) {
	for p, pn := range n.Properties {
		if strings.Contains(p, "gpio") {
			val := strings.Split(string(pn), "\x00")
			v := strings.Split(val[0], "/")
			gpio.Aliases[p] = v[len(v)-1]
		}
	}
}

// GatherPins maps each "gpio-pin-desc" child of an aliased controller,
// named PIN@INDEX, by its mode property.
func GatherPins(n *fdt.Node, name string, value string) {
	for bank, alias := range gpio.Aliases {
		if alias != n.Name {
			continue
		}
		for _, c := range n.Children {
			var desc []string
			var mode string
			for p := range c.Properties {
				switch p {
				case "gpio-pin-desc":
					desc = strings.Split(c.Name, "@")
				case "output-high", "output-low", "input":
					mode = p
				}
			}
			if len(mode) == 0 || len(desc) != 2 {
				continue
			}
			i, err := strconv.Atoi(desc[1])
			if err != nil {
				continue
			}
			gpio.Pins[desc[0]] = gpio.GpioPinMode[mode] |
				gpio.GpioBankToBase[bank] |
				gpio.Pin(i)
		}
	}
}

// Init parses the device tree file into gpio.Aliases and gpio.Pins.
func Init(fn string) error {
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return fmt.Errorf("%s: %v", fn, err)
	}
	gpio.Aliases = make(gpio.GpioAliasMap)
	gpio.Pins = make(gpio.PinMap)
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	t.Parse(b)
	t.MatchNode("aliases", GatherAliases)
	t.EachProperty("gpio-controller", "", GatherPins)
	return nil
}

// Pin looks up a named pin and sets its direction.
func Pin(name string) (gpio.Pin, error) {
	pin, found := gpio.Pins[name]
	if !found {
		return pin, fmt.Errorf("%s: gpio not found", name)
	}
	return pin, pin.SetDirection()
}
