package hal

import "time"

// PulseWidth is the step pulse high time a Pins driver must hold.
const PulseWidth = 10 * time.Microsecond

// Clock paces the step loop. The firmware core sleeps through a Clock
// rather than calling time.Sleep so tests and the simulator can run
// moves without real delays.
type Clock interface {
	Sleep(d time.Duration)
}

// WallClock implements Clock with real delays.
type WallClock struct{}

// Sleep implements Clock.
func (WallClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// NopClock implements Clock without delays.
type NopClock struct{}

// Sleep implements Clock.
func (NopClock) Sleep(time.Duration) {}
