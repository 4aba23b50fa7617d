package hal

import (
	"sync"

	"github.com/golang/glog"
)

// StepCoord is one visited step coordinate.
type StepCoord struct {
	X, Y int64
}

// Sim implements Pins in software. It replays step pulses onto a
// shadow position so tests can assert the exact coordinate trace a
// move produced, and records laser and motor-drive transitions.
type Sim struct {
	mu sync.Mutex

	forward [2]bool
	shadow  StepCoord
	trace   []StepCoord

	laser         uint8
	laserHistory  []uint8
	motorsEnabled bool
	motorEvents   []bool

	pulses [2]int64
}

// NewSim creates a simulated backend with the shadow position at the
// origin and motor drive enabled, matching the power-on state.
func NewSim() *Sim {
	return &Sim{motorsEnabled: true}
}

// SetDirection implements Pins.
func (s *Sim) SetDirection(axis Axis, forward bool) {
	s.mu.Lock()
	s.forward[axis] = forward
	s.mu.Unlock()
}

// Pulse implements Pins.
func (s *Sim) Pulse(axis Axis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delta := int64(1)
	if !s.forward[axis] {
		delta = -1
	}
	if axis == AxisX {
		s.shadow.X += delta
	} else {
		s.shadow.Y += delta
	}
	s.pulses[axis]++
	s.trace = append(s.trace, s.shadow)
}

// SetLaserOutput implements Pins.
func (s *Sim) SetLaserOutput(level uint8) {
	s.mu.Lock()
	s.laser = level
	s.laserHistory = append(s.laserHistory, level)
	s.mu.Unlock()
	glog.V(3).Infof("sim: laser output %d", level)
}

// SetMotorsEnabled implements Pins.
func (s *Sim) SetMotorsEnabled(enabled bool) {
	s.mu.Lock()
	s.motorsEnabled = enabled
	s.motorEvents = append(s.motorEvents, enabled)
	s.mu.Unlock()
	glog.V(3).Infof("sim: motors enabled=%v", enabled)
}

// Shadow returns the position implied by all pulses so far.
func (s *Sim) Shadow() StepCoord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shadow
}

// Trace returns the visited step coordinates since the last reset,
// one entry per pulse, in pulse order.
func (s *Sim) Trace() []StepCoord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StepCoord, len(s.trace))
	copy(out, s.trace)
	return out
}

// ResetTrace clears the recorded coordinate trace and pulse counters.
func (s *Sim) ResetTrace() {
	s.mu.Lock()
	s.trace = nil
	s.pulses = [2]int64{}
	s.mu.Unlock()
}

// Pulses returns the number of pulses emitted on an axis since the
// last trace reset.
func (s *Sim) Pulses(axis Axis) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulses[axis]
}

// LaserOutput returns the current laser level.
func (s *Sim) LaserOutput() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.laser
}

// LaserHistory returns every laser level that was driven, in order.
func (s *Sim) LaserHistory() []uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint8, len(s.laserHistory))
	copy(out, s.laserHistory)
	return out
}

// MotorsEnabled returns the current motor drive state.
func (s *Sim) MotorsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motorsEnabled
}

// MotorEvents returns every motor enable transition, in order.
func (s *Sim) MotorEvents() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.motorEvents))
	copy(out, s.motorEvents)
	return out
}
