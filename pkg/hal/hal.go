// Package hal abstracts the engraver electronics so the firmware core
// can run against real drivers or a software simulation.
package hal

// Axis identifies one of the two motion axes.
type Axis int

// Motion axes.
const (
	AxisX Axis = iota
	AxisY
)

// String returns the axis letter.
func (a Axis) String() string {
	if a == AxisX {
		return "X"
	}
	return "Y"
}

// Pins is the hardware abstraction the firmware core drives.
// Platform-specific implementations handle actual pin control.
type Pins interface {
	// SetDirection sets the direction output of an axis.
	// forward is the direction of increasing step coordinates.
	// Must ensure proper dir-to-step setup time.
	SetDirection(axis Axis, forward bool)

	// Pulse generates a single step pulse on an axis.
	// Must handle pulse width timing internally.
	Pulse(axis Axis)

	// SetLaserOutput drives the laser PWM duty (0 = off, 255 = full).
	SetLaserOutput(level uint8)

	// SetMotorsEnabled drives the stepper driver enable line.
	SetMotorsEnabled(enabled bool)
}

// LaserMax is the maximum laser output level.
const LaserMax = 255

var pins Pins

// SetPins is called by target-specific code to register its driver.
func SetPins(p Pins) {
	pins = p
}

// RegisteredPins returns the registered driver, or nil when no
// target-specific driver was linked in.
func RegisteredPins() Pins {
	return pins
}

// MustPins returns the registered driver or panics if missing.
func MustPins() Pins {
	if pins == nil {
		panic("hal: pins driver not configured")
	}
	return pins
}
