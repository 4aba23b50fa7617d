package sh

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Conn is one command link to an engraver, over serial or TCP.
type Conn struct {
	rwc  io.ReadWriteCloser
	br   *bufio.Reader
	name string
}

// Commands whose ACK is followed by informational lines.
var trailingInfo = map[string]int{
	"HOME":    1,
	"RESET":   1,
	"ENABLE":  1,
	"SET_POS": 1,
}

// NewConn wraps a transport. name is used for the shell prompt.
func NewConn(rwc io.ReadWriteCloser, name string) *Conn {
	return &Conn{rwc: rwc, br: bufio.NewReader(rwc), name: name}
}

// Name returns the prompt name of the connection.
func (c *Conn) Name() string {
	return c.name
}

// Close implements io.Closer.
func (c *Conn) Close() error {
	return c.rwc.Close()
}

// Do sends one command frame and returns all response lines, ending
// with the terminal ACK/ERR/STATUS line plus any informational lines
// the command is specified to emit after its ACK. Unsolicited lines
// (the startup banner) read before the terminal line are included.
func (c *Conn) Do(frame string) ([]string, error) {
	if _, err := io.WriteString(c.rwc, frame+"\n"); err != nil {
		return nil, err
	}

	var lines []string
	for {
		line, err := c.readLine()
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
		if !isTerminal(line) {
			continue
		}
		if strings.HasPrefix(line, "ACK:") {
			name := frame
			if colon := strings.IndexByte(frame, ':'); colon >= 0 {
				name = frame[:colon]
			}
			for i := 0; i < trailingInfo[name]; i++ {
				info, err := c.readLine()
				if err != nil {
					return lines, err
				}
				lines = append(lines, info)
			}
		}
		return lines, nil
	}
}

// DoErr is Do with protocol errors turned into Go errors.
func (c *Conn) DoErr(frame string) ([]string, error) {
	lines, err := c.Do(frame)
	if err != nil {
		return lines, err
	}
	if last := lines[len(lines)-1]; strings.HasPrefix(last, "ERR:") {
		return lines, fmt.Errorf("%s", strings.TrimPrefix(last, "ERR:"))
	}
	return lines, nil
}

func (c *Conn) readLine() (string, error) {
	line, err := c.br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func isTerminal(line string) bool {
	return strings.HasPrefix(line, "ACK:") ||
		strings.HasPrefix(line, "ERR:") ||
		strings.HasPrefix(line, "STATUS:")
}
