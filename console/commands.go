package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/calvinmclean/autolift"
)

type Command struct {
	Name        string
	Usage       string
	Run         func(Controller, []string, io.Writer) error
	Description string
}

// Controller is what the console needs from the elevator
type Controller interface {
	RequestCar(floor int) error
	Resume() bool
	Status() autolift.Status
}

var (
	errCallUsage  = errors.New("CALL 1|2|3")
	errUnknownCmd = errors.New("UNKNOWN CMD (HELP)")
)

var (
	CallCommand = &Command{
		Name:  "CALL",
		Usage: "CALL 1|2|3",
		Run: func(c Controller, args []string, w io.Writer) error {
			if len(args) != 1 {
				return errCallUsage
			}
			f, err := strconv.Atoi(args[0])
			if err != nil || !autolift.ValidFloor(f) {
				return errCallUsage
			}

			err = c.RequestCar(f)
			if err != nil {
				return errCallUsage
			}
			writeLine(w, "OK: CALL "+strconv.Itoa(f))
			return nil
		},
		Description: "Register a car call for a floor.",
	}
	StatusCommand = &Command{
		Name:  "STATUS",
		Usage: "STATUS",
		Run: func(c Controller, _ []string, w io.Writer) error {
			s := c.Status()
			writeLine(w, fmt.Sprintf("RAW=%s %s", rawString(s.Raw), s.Photo))
			writeLine(w, "FLOOR="+strconv.Itoa(s.Floor))
			writeLine(w, "STATE="+s.State.String())
			writeLine(w, "DOOR="+s.Door.String())
			writeLine(w, "QUEUE="+s.Queue)
			return nil
		},
		Description: "Print sensors, floor, state, door and pending requests.",
	}
	ResumeCommand = &Command{
		Name:  "RESUME",
		Usage: "RESUME",
		Run: func(c Controller, _ []string, w io.Writer) error {
			c.Resume()
			writeLine(w, "RESUME OK")
			return nil
		},
		Description: "Leave emergency stop.",
	}
	HelpCommand = &Command{
		Name:        "HELP",
		Usage:       "HELP",
		Description: "Show all available commands.",
		Run: func(c Controller, _ []string, w io.Writer) error {
			writeLine(w, "CMD:")
			for _, cmd := range commands {
				writeLine(w, "  "+cmd.Usage+" - "+cmd.Description)
			}
			return nil
		},
	}
)

var commands = []*Command{
	CallCommand,
	StatusCommand,
	ResumeCommand,
	HelpCommand,
}

func rawString(raw [3]bool) string {
	b := []byte("000")
	for i, v := range raw {
		if v {
			b[i] = '1'
		}
	}
	return string(b)
}

func writeLine(w io.Writer, s string) {
	_, _ = io.WriteString(w, s+"\r\n")
}
