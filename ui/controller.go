package ui

import (
	"fmt"
	"io"
	"time"
)

// controllerWrapper turns panel actions into console commands
type controllerWrapper struct {
	writer    io.Writer
	tripTimer *timer
}

func (c *controllerWrapper) Call(floor int) {
	c.tripTimer.Set(time.Now())
	fmt.Fprintf(c.writer, "CALL %d\n", floor)
}

func (c *controllerWrapper) Status() {
	fmt.Fprint(c.writer, "STATUS\n")
}

func (c *controllerWrapper) Resume() {
	fmt.Fprint(c.writer, "RESUME\n")
}
