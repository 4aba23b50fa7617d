package firmware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerBounds(t *testing.T) {
	tracker := NewTracker(MaxStepsX, MaxStepsY)
	testCases := []struct {
		name string
		x, y int64
		in   bool
	}{
		{name: "origin", x: 0, y: 0, in: true},
		{name: "max corner", x: MaxStepsX, y: MaxStepsY, in: true},
		{name: "x over", x: MaxStepsX + 1, y: 0, in: false},
		{name: "y over", x: 0, y: MaxStepsY + 1, in: false},
		{name: "x negative", x: -1, y: 0, in: false},
		{name: "y negative", x: 0, y: -1, in: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.in, tracker.InBounds(tc.x, tc.y))
		})
	}
}

func TestTrackerTrapdoorSet(t *testing.T) {
	tracker := NewTracker(MaxStepsX, MaxStepsY)
	// Set trusts the caller: no bounds check, no motion.
	tracker.Set(123, -456)
	x, y := tracker.Position()
	require.Equal(t, int64(123), x)
	require.Equal(t, int64(-456), y)
}
