package firmware

import (
	"errors"
	"math"

	"github.com/photonmill/engrave.go/pkg/hal"
)

// ErrOutOfBounds indicates a move target outside the travel limits.
// The move is not attempted and the tracked position is unchanged.
var ErrOutOfBounds = errors.New("target position out of bounds")

// Planner converts an absolute HPGL-unit target into a coordinated
// dual-axis pulse sequence using Bresenham's line algorithm. The step
// loop is a blocking operation: nothing else runs on the dispatch task
// until the move completes.
type Planner struct {
	pins    hal.Pins
	clock   hal.Clock
	tracker *Tracker
}

// NewPlanner creates a planner driving pins, paced by clock, over the
// given position tracker.
func NewPlanner(pins hal.Pins, clock hal.Clock, tracker *Tracker) *Planner {
	return &Planner{pins: pins, clock: clock, tracker: tracker}
}

// ScaleToSteps converts one HPGL coordinate to step units.
func ScaleToSteps(hpgl int64) int64 {
	return int64(math.Round(HPGLToSteps * float64(hpgl)))
}

// MoveTo moves to an absolute HPGL-unit target. The target is scaled,
// bounds-checked, then rasterized into step pulses. On success the
// tracked position is committed to the scaled target exactly; every
// emitted pulse is assumed physically honored.
func (p *Planner) MoveTo(hpglX, hpglY int64) error {
	targetX := ScaleToSteps(hpglX)
	targetY := ScaleToSteps(hpglY)
	if !p.tracker.InBounds(targetX, targetY) {
		return ErrOutOfBounds
	}

	curX, curY := p.tracker.Position()
	dx := targetX - curX
	dy := targetY - curY

	p.pins.SetDirection(hal.AxisX, dx >= 0)
	p.pins.SetDirection(hal.AxisY, dy >= 0)

	absDx, absDy := abs64(dx), abs64(dy)

	// Y drives unless |dx| is strictly larger. The tie policy matters:
	// it fixes the pulse interleaving of 45-degree moves.
	if absDx > absDy {
		p.raster(hal.AxisX, absDx, hal.AxisY, absDy)
	} else {
		p.raster(hal.AxisY, absDy, hal.AxisX, absDx)
	}

	p.tracker.Set(targetX, targetY)
	return nil
}

// raster runs the incremental line loop: one major-axis pulse per
// iteration, a minor-axis pulse whenever the error term underflows
// zero. The plotted path deviates from the ideal line by less than one
// step at every iteration.
func (p *Planner) raster(major hal.Axis, majorSteps int64, minor hal.Axis, minorSteps int64) {
	errTerm := majorSteps / 2
	for i := int64(0); i < majorSteps; i++ {
		p.pins.Pulse(major)
		errTerm -= minorSteps
		if errTerm < 0 {
			p.pins.Pulse(minor)
			errTerm += majorSteps
		}
		p.clock.Sleep(StepDelay)
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
