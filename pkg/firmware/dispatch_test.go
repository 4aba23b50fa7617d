package firmware

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photonmill/engrave.go/pkg/hal"
)

type rwPair struct {
	io.Reader
	io.Writer
}

func newScriptDispatcher(script string) (*Dispatcher, *bytes.Buffer, *hal.Sim) {
	out := &bytes.Buffer{}
	sim := hal.NewSim()
	d := NewDispatcher(rwPair{Reader: strings.NewReader(script), Writer: out}, sim, hal.NopClock{})
	return d, out, sim
}

// runScript feeds a full command script through Run and returns the
// response lines, banner included.
func runScript(t *testing.T, script string) ([]string, *hal.Sim) {
	t.Helper()
	d, out, sim := newScriptDispatcher(script)
	require.NoError(t, d.Run(context.Background()))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	return lines, sim
}

const banner = 2 // lines before the first response

func TestStartupBanner(t *testing.T) {
	lines, _ := runScript(t, "")
	require.Equal(t, []string{
		"HPGL Laser Engraver Ready",
		"INFO: System assumes current position is (0,0)",
	}, lines)
}

func TestCommandTranscript(t *testing.T) {
	lines, _ := runScript(t, "PA:100,100\nSTATUS:\nPD:\nSP:128\nSTATUS:\n")
	require.Equal(t, []string{
		"ACK:PA",
		"STATUS:1058,1058,0,0",
		"ACK:PD",
		"ACK:SP",
		"STATUS:1058,1058,1,128",
	}, lines[banner:])
}

func TestFrameErrors(t *testing.T) {
	testCases := []struct {
		name   string
		script string
		expect []string
	}{
		{
			name:   "no colon",
			script: "FOO\nSTATUS:\n",
			expect: []string{"ERR:Invalid command format", "STATUS:0,0,0,0"},
		},
		{
			name:   "unknown command",
			script: "FOO:\n",
			expect: []string{"ERR:Unknown command"},
		},
		{
			name:   "PA missing comma",
			script: "PA:12\n",
			expect: []string{"ERR:Invalid PA params"},
		},
		{
			name:   "PA non-integer",
			script: "PA:abc,0\n",
			expect: []string{"ERR:Invalid PA params"},
		},
		{
			name:   "PA out of bounds keeps position",
			script: "PA:2000,0\nSTATUS:\n",
			expect: []string{"ERR:Target position out of bounds", "STATUS:0,0,0,0"},
		},
		{
			name:   "SP non-integer",
			script: "SP:full\n",
			expect: []string{"ERR:Invalid SP params"},
		},
		{
			name:   "SET_POS non-integer",
			script: "SET_POS:1,two\n",
			expect: []string{"ERR:Invalid SET_POS params"},
		},
		{
			name:   "empty frame",
			script: "\n",
			expect: []string{"ERR:Invalid command format"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lines, _ := runScript(t, tc.script)
			require.Equal(t, tc.expect, lines[banner:])
		})
	}
}

func TestRejectedMoveEmitsNoPulses(t *testing.T) {
	_, sim := runScript(t, "PA:2000,0\n")
	require.Empty(t, sim.Trace())
}

func TestPowerClamp(t *testing.T) {
	testCases := []struct {
		name   string
		script string
		status string
	}{
		{name: "negative", script: "SP:-5\nSTATUS:\n", status: "STATUS:0,0,0,0"},
		{name: "over max", script: "SP:999\nSTATUS:\n", status: "STATUS:0,0,0,255"},
		{name: "in range", script: "SP:128\nSTATUS:\n", status: "STATUS:0,0,0,128"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lines, _ := runScript(t, tc.script)
			require.Equal(t, []string{"ACK:SP", tc.status}, lines[banner:])
		})
	}
}

func TestLaserToggleIdempotence(t *testing.T) {
	lines, sim := runScript(t, "SP:40\nPD:\nPD:\nSTATUS:\nPU:\nPU:\nSTATUS:\n")
	require.Equal(t, []string{
		"ACK:SP",
		"ACK:PD",
		"ACK:PD",
		"STATUS:0,0,1,40",
		"ACK:PU",
		"ACK:PU",
		"STATUS:0,0,0,40",
	}, lines[banner:])
	require.Equal(t, uint8(0), sim.LaserOutput())
}

func TestLivePowerChange(t *testing.T) {
	// SP while enabled re-drives the output without another PD.
	_, sim := runScript(t, "PD:\nSP:200\n")
	require.Equal(t, uint8(200), sim.LaserOutput())
}

func TestHome(t *testing.T) {
	lines, _ := runScript(t, "PA:100,100\nHOME:\nSTATUS:\n")
	require.Equal(t, []string{
		"ACK:PA",
		"ACK:HOME",
		"INFO:Current position set as (0,0)",
		"STATUS:0,0,0,0",
	}, lines[banner:])
}

func TestSetPos(t *testing.T) {
	lines, _ := runScript(t, "SET_POS:500,600\nSTATUS:\n")
	require.Equal(t, []string{
		"ACK:SET_POS",
		"INFO:Position set to (500,600)",
		"STATUS:500,600,0,0",
	}, lines[banner:])
}

func TestResetAndEnable(t *testing.T) {
	lines, sim := runScript(t, "PD:\nSP:100\nRESET:\nSTATUS:\nENABLE:\n")
	require.Equal(t, []string{
		"ACK:PD",
		"ACK:SP",
		"ACK:RESET",
		"INFO:Emergency stop - motors disabled, laser off",
		// stored laser state survives the emergency stop; only the
		// physical output was forced off.
		"STATUS:0,0,1,100",
		"ACK:ENABLE",
		"INFO:Motors enabled",
	}, lines[banner:])
	require.Equal(t, uint8(0), sim.LaserOutput())
	require.Equal(t, []bool{false, true}, sim.MotorEvents())
	require.True(t, sim.MotorsEnabled())
}

func TestCarriageReturnTolerated(t *testing.T) {
	lines, _ := runScript(t, "STATUS:\r\n")
	require.Equal(t, []string{"STATUS:0,0,0,0"}, lines[banner:])
}

func TestSplitFrameAssembly(t *testing.T) {
	d, out, _ := newScriptDispatcher("")
	ctx := context.Background()
	for _, b := range []byte("STATUS:") {
		d.Feed(ctx, b)
	}
	require.Zero(t, out.Len(), "no response before the delimiter")
	d.Feed(ctx, '\n')
	require.Equal(t, "STATUS:0,0,0,0\n", out.String())
}

func TestNotifierSeesEveryFrame(t *testing.T) {
	d, _, _ := newScriptDispatcher("PA:100,100\nPD:\nBAD\n")
	var snaps []Snapshot
	d.Notifier = StateChangedFunc(func(_ context.Context, s Snapshot) {
		snaps = append(snaps, s)
	})
	require.NoError(t, d.Run(context.Background()))

	// one startup snapshot plus one per frame, accepted or not.
	require.Len(t, snaps, 4)
	last := snaps[len(snaps)-1]
	require.Equal(t, int64(1058), last.X)
	require.Equal(t, int64(1058), last.Y)
	require.True(t, last.LaserEnabled)
	require.True(t, last.MotorsEnabled)
}
