// Package engrave provides console commands speaking the engraver
// protocol.
package engrave

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/photonmill/engrave.go/pkg/cli/sh"
)

func intPair(c *ishell.Context) (x, y int64, ok bool) {
	if len(c.Args) < 2 {
		c.Err(fmt.Errorf("X and Y required"))
		return 0, 0, false
	}
	x, errX := strconv.ParseInt(c.Args[0], 10, 64)
	y, errY := strconv.ParseInt(c.Args[1], 10, 64)
	if errX != nil || errY != nil {
		c.Err(fmt.Errorf("X and Y must be integers"))
		return 0, 0, false
	}
	return x, y, true
}

var (
	// UpCmd raises the pen (laser off).
	UpCmd = ishell.Cmd{
		Name:    "up",
		Aliases: []string{"pu"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoFrame(c, "PU:")
		}),
	}

	// DownCmd lowers the pen (laser on at stored power).
	DownCmd = ishell.Cmd{
		Name:    "down",
		Aliases: []string{"pd"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoFrame(c, "PD:")
		}),
	}

	// MoveCmd moves to an absolute HPGL position.
	MoveCmd = ishell.Cmd{
		Name:    "move",
		Aliases: []string{"pa"},
		Help:    "X Y (HPGL units)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if x, y, ok := intPair(c); ok {
				sh.DoFrame(c, fmt.Sprintf("PA:%d,%d", x, y))
			}
		}),
	}

	// PowerCmd sets the laser power.
	PowerCmd = ishell.Cmd{
		Name:    "power",
		Aliases: []string{"sp"},
		Help:    "POWER (0-255)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("POWER required"))
				return
			}
			power, err := strconv.ParseInt(c.Args[0], 10, 64)
			if err != nil {
				c.Err(fmt.Errorf("invalid POWER: %v", err))
				return
			}
			sh.DoFrame(c, fmt.Sprintf("SP:%d", power))
		}),
	}

	// HomeCmd declares the current position to be the origin.
	HomeCmd = ishell.Cmd{
		Name: "home",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoFrame(c, "HOME:")
		}),
	}

	// StatusCmd queries the device state.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoFrame(c, "STATUS:")
		}),
	}

	// StopCmd is the emergency stop.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"estop", "reset"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoFrame(c, "RESET:")
		}),
	}

	// EnableCmd re-enables the motor drive after an emergency stop.
	EnableCmd = ishell.Cmd{
		Name: "enable",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoFrame(c, "ENABLE:")
		}),
	}

	// SetPosCmd overwrites the tracked position without motion.
	SetPosCmd = ishell.Cmd{
		Name: "setpos",
		Help: "X Y (step units)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if x, y, ok := intPair(c); ok {
				sh.DoFrame(c, fmt.Sprintf("SET_POS:%d,%d", x, y))
			}
		}),
	}

	// RawCmd sends an arbitrary protocol frame.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "FRAME",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FRAME required"))
				return
			}
			sh.DoFrame(c, c.Args[0])
		}),
	}
)

func init() {
	sh.AddCmds(
		&UpCmd,
		&DownCmd,
		&MoveCmd,
		&PowerCmd,
		&HomeCmd,
		&StatusCmd,
		&StopCmd,
		&EnableCmd,
		&SetPosCmd,
		&RawCmd,
	)
}
