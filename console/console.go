// Package console implements the line-oriented operator console: CALL, STATUS, RESUME and HELP,
// plus an unprompted push of the floor reading whenever it changes.
package console

import (
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultRxSize is the receive ring size. It holds a few full command lines
const DefaultRxSize = 256

// Console parses commands from its receive Ring and writes replies to out. Task runs on the control
// loop; only the Ring is touched from the receive side
type Console struct {
	rx    *Ring
	out   io.Writer
	ctl   Controller
	log   zerolog.Logger
	lines lineBuffer

	cmdMap map[string]*Command

	lastPush string
}

func New(ctl Controller, out io.Writer, log zerolog.Logger) *Console {
	cmdMap := map[string]*Command{}
	for _, cmd := range commands {
		cmdMap[cmd.Name] = cmd
	}

	return &Console{
		rx:     NewRing(DefaultRxSize),
		out:    out,
		ctl:    ctl,
		log:    log,
		cmdMap: cmdMap,
	}
}

// Rx is the receive Ring for the producer side
func (c *Console) Rx() *Ring {
	return c.rx
}

// Ready prints the banner
func (c *Console) Ready() {
	writeLine(c.out, "CMD READY")
}

// Task handles every complete line received since the last call and then pushes the floor reading
// if it changed
func (c *Console) Task() {
	if c.rx.TakeOverflow() {
		// everything still queued arrived before the dropped bytes
		c.drain(c.rx.Len())
		c.lines.drop()
		c.log.Warn().Msg("console receive overflow")
		writeLine(c.out, "ERR: "+ErrLineTooLong.Error())
	}
	c.drain(-1)

	c.push()
}

// drain feeds up to n received bytes to the line buffer, or all of them when n is negative
func (c *Console) drain(n int) {
	for ; n != 0; n-- {
		b, ok := c.rx.Get()
		if !ok {
			return
		}

		line, ok, err := c.lines.feed(b)
		if errors.Is(err, ErrLineTooLong) {
			writeLine(c.out, "ERR: "+err.Error())
			continue
		}
		if ok {
			c.Handle(line)
		}
	}
}

// Handle runs one command line
func (c *Console) Handle(line string) {
	fields := strings.Fields(strings.ToUpper(line))
	if len(fields) == 0 {
		return
	}

	cmd, ok := c.cmdMap[fields[0]]
	if !ok {
		cmd, fields = c.splitGlued(fields)
	}
	if cmd == nil {
		writeLine(c.out, "ERR: "+errUnknownCmd.Error())
		return
	}

	c.log.Debug().Str("cmd", cmd.Name).Strs("args", fields[1:]).Msg("console command")

	err := cmd.Run(c.ctl, fields[1:], c.out)
	if err != nil {
		writeLine(c.out, "ERR: "+err.Error())
	}
}

// splitGlued accepts an argument written straight after the command name, like CALL2
func (c *Console) splitGlued(fields []string) (*Command, []string) {
	for name, cmd := range c.cmdMap {
		if rest, ok := strings.CutPrefix(fields[0], name); ok && rest != "" {
			return cmd, append([]string{name, rest}, fields[1:]...)
		}
	}
	return nil, fields
}

func (c *Console) push() {
	simple := c.ctl.Status().Photo.Simple()
	if simple == c.lastPush {
		return
	}
	c.lastPush = simple
	writeLine(c.out, simple)
}
