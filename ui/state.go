package ui

import "strings"

// panelState is what the panel shows, rebuilt from the console output
type panelState struct {
	reading string
	state   string
	door    string
	queue   string
}

// apply updates the state from one console line and returns false if the line carried nothing to show
func (s *panelState) apply(line string) bool {
	line = strings.TrimSpace(line)

	switch {
	case line == "MOVING", line == "ERROR":
		s.reading = line
	case strings.HasPrefix(line, "FLOOR="):
		s.reading = line
	case strings.HasPrefix(line, "STATE="):
		s.state = strings.TrimPrefix(line, "STATE=")
	case strings.HasPrefix(line, "DOOR="):
		s.door = strings.TrimPrefix(line, "DOOR=")
	case strings.HasPrefix(line, "QUEUE="):
		s.queue = strings.TrimPrefix(line, "QUEUE=")
	default:
		return false
	}
	return true
}

func (s panelState) summary() string {
	var parts []string
	for _, p := range []string{s.state, s.door, s.queue} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "  ")
}
