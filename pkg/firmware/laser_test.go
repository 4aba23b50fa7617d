package firmware

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photonmill/engrave.go/pkg/hal"
)

func TestLaserOutputFollowsState(t *testing.T) {
	sim := hal.NewSim()
	l := NewLaser(sim)

	l.SetPower(90)
	require.Equal(t, uint8(0), sim.LaserOutput(), "power alone must not fire the laser")

	l.On()
	require.Equal(t, uint8(90), sim.LaserOutput())

	l.SetPower(120)
	require.Equal(t, uint8(120), sim.LaserOutput(), "power changes apply live while enabled")

	l.Off()
	require.Equal(t, uint8(0), sim.LaserOutput())
	require.Equal(t, uint8(120), l.Power(), "stored power survives PU")
}

func TestLaserPowerClamp(t *testing.T) {
	testCases := []struct {
		name   string
		in     int64
		expect uint8
	}{
		{name: "below range", in: -5, expect: 0},
		{name: "above range", in: 999, expect: 255},
		{name: "at max", in: 255, expect: 255},
		{name: "in range", in: 77, expect: 77},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLaser(hal.NewSim())
			l.SetPower(tc.in)
			require.Equal(t, tc.expect, l.Power())
		})
	}
}

func TestLaserQuenchKeepsState(t *testing.T) {
	sim := hal.NewSim()
	l := NewLaser(sim)
	l.SetPower(64)
	l.On()

	l.Quench()
	require.Equal(t, uint8(0), sim.LaserOutput())
	require.True(t, l.Enabled())
	require.Equal(t, uint8(64), l.Power())
}
