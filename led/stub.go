/*
NAME
  stub.go

DESCRIPTION
  stub.go provides a logging-only Driver, used when no physical LED
  hardware is attached (testing, replay, development).

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package led

import "github.com/ausocean/utils/logging"

// LogDriver is a Driver that only logs the colors it's asked to set,
// instead of driving real hardware.
type LogDriver struct {
	log    logging.Logger
	staged map[string][3]uint8
}

// NewLogDriver returns a LogDriver.
func NewLogDriver(log logging.Logger) *LogDriver {
	return &LogDriver{log: log, staged: make(map[string][3]uint8)}
}

// SetLEDs stages a color for controller.
func (d *LogDriver) SetLEDs(controller string, r, g, b uint8) error {
	d.staged[controller] = [3]uint8{r, g, b}
	return nil
}

// Commit logs every staged color and clears the staging set.
func (d *LogDriver) Commit() error {
	for controller, rgb := range d.staged {
		d.log.Debug("led commit", "controller", controller, "r", rgb[0], "g", rgb[1], "b", rgb[2])
	}
	d.staged = make(map[string][3]uint8)
	return nil
}
