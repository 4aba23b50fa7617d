// Package firmware implements the engraver command interpreter: a
// newline-delimited text protocol that converts absolute-position and
// laser commands into synchronized step pulses and laser output.
package firmware

import (
	"context"
	"fmt"
	"time"
)

// Machine calibration constants.
const (
	// HPGLToSteps converts HPGL units to motor steps.
	HPGLToSteps = 10.5788
	// StepDelay is the pause between Bresenham iterations.
	StepDelay = 1200 * time.Microsecond
	// MaxStepsX is the X travel limit in steps.
	MaxStepsX = 19050
	// MaxStepsY is the Y travel limit in steps.
	MaxStepsY = 19050
	// BaudRate of the serial command link.
	BaudRate = 115200
)

// Snapshot is a point-in-time copy of the device state. It is safe to
// hand to observers outside the dispatch task.
type Snapshot struct {
	X             int64 `json:"x"`
	Y             int64 `json:"y"`
	LaserEnabled  bool  `json:"laser_enabled"`
	LaserPower    uint8 `json:"laser_power"`
	MotorsEnabled bool  `json:"motors_enabled"`
}

// String formats the snapshot the way the STATUS reply does.
func (s Snapshot) String() string {
	enabled := 0
	if s.LaserEnabled {
		enabled = 1
	}
	return fmt.Sprintf("%d,%d,%d,%d", s.X, s.Y, enabled, s.LaserPower)
}

// StateNotifier observes device state changes. It is invoked from the
// dispatch task after every processed frame, so implementations must
// not block.
type StateNotifier interface {
	StateChanged(context.Context, Snapshot)
}

// StateChangedFunc is the func form of StateNotifier.
type StateChangedFunc func(context.Context, Snapshot)

// StateChanged implements StateNotifier.
func (f StateChangedFunc) StateChanged(ctx context.Context, s Snapshot) {
	f(ctx, s)
}
