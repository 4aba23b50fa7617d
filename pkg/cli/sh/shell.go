// Package sh provides the ishell backed interactive operator console.
package sh

import (
	"flag"
	"fmt"
	"log"
	"net"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/photonmill/engrave.go/pkg/serialport"
)

// Shell provides the interactive console.
type Shell struct {
	Interactive bool

	Shell *ishell.Shell
	Conn  *Conn
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly bool

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps a command func requiring a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// DoFrame sends one protocol frame on the current connection and
// prints every response line.
func DoFrame(c *ishell.Context, frame string) {
	s := ShellFrom(c)
	if s.Conn == nil {
		c.Err(fmt.Errorf("not connected"))
		return
	}
	lines, err := s.Conn.Do(frame)
	for _, line := range lines {
		c.Println(line)
	}
	if err != nil {
		c.Err(err)
	}
}

// ConnectSerial connects over a serial port.
func (s *Shell) ConnectSerial(path string, baud int) error {
	port, err := serialport.Open(path, serialport.Options{BaudRate: baud})
	if err != nil {
		return err
	}
	s.setConn(NewConn(port, path))
	return nil
}

// ConnectTCP connects to a simulated engraver.
func (s *Shell) ConnectTCP(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	s.setConn(NewConn(conn, addr))
	return nil
}

func (s *Shell) setConn(conn *Conn) {
	if s.Conn != nil {
		s.Conn.Close()
	}
	s.Conn = conn
	s.Shell.SetPrompt(conn.Name() + " > ")
}

// Disconnect disconnects the current device.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is the shared main for the console binary.
func Main() {
	flag.Parse()
	s := New()
	defer s.Disconnect()
	s.Run(flag.Args()...)
}

var (
	// ConnectCmd connects a device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "serial PATH [BAUD] | tcp ADDR",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("usage: connect serial PATH [BAUD] | connect tcp ADDR"))
				return
			}
			var err error
			switch c.Args[0] {
			case "serial":
				baud := 0
				if len(c.Args) > 2 {
					if baud, err = strconv.Atoi(c.Args[2]); err != nil {
						c.Err(fmt.Errorf("invalid baud rate: %v", err))
						return
					}
				}
				err = s.ConnectSerial(c.Args[1], baud)
			case "tcp":
				err = s.ConnectTCP(c.Args[1])
			default:
				err = fmt.Errorf("unknown transport %q", c.Args[0])
			}
			if err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)
