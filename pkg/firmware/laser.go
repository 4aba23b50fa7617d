package firmware

import "github.com/photonmill/engrave.go/pkg/hal"

// Laser holds the enable/power state and reflects it onto the laser
// output. The physical output follows the stored power only while
// enabled; it is forced to zero otherwise.
type Laser struct {
	pins    hal.Pins
	enabled bool
	power   uint8
}

// NewLaser creates a laser controller, off at zero power.
func NewLaser(pins hal.Pins) *Laser {
	return &Laser{pins: pins}
}

// Off disables the laser and forces the output to zero.
func (l *Laser) Off() {
	l.enabled = false
	l.pins.SetLaserOutput(0)
}

// On enables the laser and drives the output to the stored power.
func (l *Laser) On() {
	l.enabled = true
	l.pins.SetLaserOutput(l.power)
}

// SetPower stores a new power level, clamped to [0,255]. If the laser
// is enabled the output changes live.
func (l *Laser) SetPower(power int64) {
	if power < 0 {
		power = 0
	}
	if power > hal.LaserMax {
		power = hal.LaserMax
	}
	l.power = uint8(power)
	if l.enabled {
		l.pins.SetLaserOutput(l.power)
	}
}

// Quench forces the output to zero without touching the stored
// enable/power state. Used by the emergency stop.
func (l *Laser) Quench() {
	l.pins.SetLaserOutput(0)
}

// Enabled returns the stored enable state.
func (l *Laser) Enabled() bool {
	return l.enabled
}

// Power returns the stored power level.
func (l *Laser) Power() uint8 {
	return l.power
}
