package firmware

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"

	fx "github.com/photonmill/engrave.go/pkg/framework"
	"github.com/photonmill/engrave.go/pkg/hal"
)

// Dispatcher assembles newline-delimited command frames from the
// transport, parses NAME:PARAMS, routes to the laser controller,
// motion planner and position tracker, and writes response lines.
//
// Dispatch is strictly synchronous: the reply for a frame is written
// before the next byte is read, and a PA step loop blocks all input
// until the move completes. Exactly one goroutine mutates the device
// state, so no locking is needed around it.
type Dispatcher struct {
	rw      io.ReadWriter
	pins    hal.Pins
	tracker *Tracker
	laser   *Laser
	planner *Planner

	// Notifier, if set, receives a state snapshot after every
	// processed frame. Called on the dispatch task.
	Notifier StateNotifier

	motors bool
	buf    []byte
}

// NewDispatcher creates a dispatcher over a byte transport with the
// machine's calibrated limits. State starts at the power-on defaults:
// origin, laser off at zero power, motor drive enabled.
func NewDispatcher(rw io.ReadWriter, pins hal.Pins, clock hal.Clock) *Dispatcher {
	tracker := NewTracker(MaxStepsX, MaxStepsY)
	return &Dispatcher{
		rw:      rw,
		pins:    pins,
		tracker: tracker,
		laser:   NewLaser(pins),
		planner: NewPlanner(pins, clock, tracker),
		motors:  true,
	}
}

// Snapshot returns a copy of the current device state. Only safe from
// the dispatch task or while it is not running.
func (d *Dispatcher) Snapshot() Snapshot {
	x, y := d.tracker.Position()
	return Snapshot{
		X:             x,
		Y:             y,
		LaserEnabled:  d.laser.Enabled(),
		LaserPower:    d.laser.Power(),
		MotorsEnabled: d.motors,
	}
}

// Run implements framework.Runnable. It emits the startup banner, then
// serves frames until the transport fails or the context is canceled.
// Cancellation takes effect between commands only; an in-progress move
// always runs to completion.
func (d *Dispatcher) Run(ctx context.Context) error {
	if closer, ok := d.rw.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, func() error { return d.serve(ctx) })
	}
	return fx.RunWithContext(ctx, func() error { return d.serve(ctx) })
}

func (d *Dispatcher) serve(ctx context.Context) error {
	d.respond("HPGL Laser Engraver Ready")
	d.respond("INFO: System assumes current position is (0,0)")
	d.notify(ctx)

	buf := make([]byte, 1)
	for {
		n, err := d.rw.Read(buf)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if n > 0 {
			d.Feed(ctx, buf[0])
		}
	}
}

// Feed consumes one inbound byte, dispatching a frame when the
// newline delimiter arrives.
func (d *Dispatcher) Feed(ctx context.Context, b byte) {
	if b != '\n' {
		d.buf = append(d.buf, b)
		return
	}
	line := strings.TrimSuffix(string(d.buf), "\r")
	d.buf = d.buf[:0]
	d.Dispatch(ctx, line)
}

// Dispatch processes one complete command frame. A snapshot is pushed
// to the notifier afterwards whether the frame was accepted or not.
func (d *Dispatcher) Dispatch(ctx context.Context, frame string) {
	glog.V(2).Infof("frame %q", frame)
	defer d.notify(ctx)

	colon := strings.IndexByte(frame, ':')
	if colon < 0 {
		d.respondErr("Invalid command format")
		return
	}
	name, params := frame[:colon], frame[colon+1:]

	switch name {
	case "PU":
		d.laser.Off()
		d.ack(name)
	case "PD":
		d.laser.On()
		d.ack(name)
	case "PA":
		d.handleMove(params)
	case "SP":
		d.handlePower(params)
	case "HOME":
		d.tracker.Set(0, 0)
		d.ack(name)
		d.respond("INFO:Current position set as (0,0)")
	case "STATUS":
		d.respond("STATUS:" + d.Snapshot().String())
	case "RESET":
		d.laser.Quench()
		d.pins.SetMotorsEnabled(false)
		d.motors = false
		glog.Warning("emergency stop requested")
		d.ack(name)
		d.respond("INFO:Emergency stop - motors disabled, laser off")
	case "ENABLE":
		d.pins.SetMotorsEnabled(true)
		d.motors = true
		d.ack(name)
		d.respond("INFO:Motors enabled")
	case "SET_POS":
		d.handleSetPos(params)
	default:
		d.respondErr("Unknown command")
	}
}

func (d *Dispatcher) handleSetPos(params string) {
	x, y, ok := parsePair(params)
	if !ok {
		d.respondErr("Invalid SET_POS params")
		return
	}
	d.tracker.Set(x, y)
	d.ack("SET_POS")
	d.respond(fmt.Sprintf("INFO:Position set to (%d,%d)", x, y))
}

func (d *Dispatcher) handleMove(params string) {
	x, y, ok := parsePair(params)
	if !ok {
		d.respondErr("Invalid PA params")
		return
	}
	if err := d.planner.MoveTo(x, y); err != nil {
		d.respondErr("Target position out of bounds")
		return
	}
	d.ack("PA")
}

func (d *Dispatcher) handlePower(params string) {
	power, err := strconv.ParseInt(params, 10, 64)
	if err != nil {
		d.respondErr("Invalid SP params")
		return
	}
	d.laser.SetPower(power)
	d.ack("SP")
}

// parsePair parses "x,y" with two decimal integers and one comma.
func parsePair(params string) (x, y int64, ok bool) {
	comma := strings.IndexByte(params, ',')
	if comma < 0 {
		return 0, 0, false
	}
	x, errX := strconv.ParseInt(params[:comma], 10, 64)
	y, errY := strconv.ParseInt(params[comma+1:], 10, 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

func (d *Dispatcher) ack(name string) {
	d.respond("ACK:" + name)
}

func (d *Dispatcher) respondErr(msg string) {
	glog.V(1).Infof("rejected frame: %s", msg)
	d.respond("ERR:" + msg)
}

func (d *Dispatcher) respond(line string) {
	if _, err := io.WriteString(d.rw, line+"\n"); err != nil {
		glog.Errorf("write response: %v", err)
	}
}

func (d *Dispatcher) notify(ctx context.Context) {
	if d.Notifier != nil {
		d.Notifier.StateChanged(ctx, d.Snapshot())
	}
}
