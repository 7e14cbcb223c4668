/*
NAME
  led.go

DESCRIPTION
  led.go describes Driver, the narrow capability set the sphere tracker
  needs from a controller LED driver: set and commit an RGB color.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package led provides Driver, the tracker's controller illumination
// abstraction.
package led

// Driver is the capability set spec.md §9 assigns to the controller LED
// driver: {set_leds, commit_leds}.
type Driver interface {
	// SetLEDs stages an RGB color for the given controller; it takes
	// effect on the next Commit.
	SetLEDs(controller string, r, g, b uint8) error

	// Commit pushes all staged LED colors to the hardware.
	Commit() error
}
