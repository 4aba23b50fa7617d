package hal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimShadowFollowsPulses(t *testing.T) {
	s := NewSim()
	s.SetDirection(AxisX, true)
	s.SetDirection(AxisY, true)
	s.Pulse(AxisX)
	s.Pulse(AxisY)
	s.Pulse(AxisX)
	require.Equal(t, StepCoord{X: 2, Y: 1}, s.Shadow())

	s.SetDirection(AxisX, false)
	s.Pulse(AxisX)
	require.Equal(t, StepCoord{X: 1, Y: 1}, s.Shadow())

	require.Equal(t, []StepCoord{
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 2, Y: 1},
		{X: 1, Y: 1},
	}, s.Trace())
	require.Equal(t, int64(3), s.Pulses(AxisX))
	require.Equal(t, int64(1), s.Pulses(AxisY))
}

func TestSimResetTrace(t *testing.T) {
	s := NewSim()
	s.SetDirection(AxisY, true)
	s.Pulse(AxisY)
	s.ResetTrace()
	require.Empty(t, s.Trace())
	require.Zero(t, s.Pulses(AxisY))
	// shadow is the physical carriage: trace resets must not move it.
	require.Equal(t, StepCoord{Y: 1}, s.Shadow())
}

func TestSimRecordsOutputs(t *testing.T) {
	s := NewSim()
	require.True(t, s.MotorsEnabled(), "motor drive starts enabled")

	s.SetLaserOutput(128)
	s.SetLaserOutput(0)
	s.SetMotorsEnabled(false)

	require.Equal(t, uint8(0), s.LaserOutput())
	require.Equal(t, []uint8{128, 0}, s.LaserHistory())
	require.False(t, s.MotorsEnabled())
	require.Equal(t, []bool{false}, s.MotorEvents())
}
