package photo

// Pin is a digital input, such as a machine.Pin
type Pin interface {
	Get() bool
}

// Pins reads the beams from three input pins, floor 1 first. Beam receivers pull their line low
// while the beam is broken, so an idle pulled-up pin reads as clear. Set BrokenHigh for receivers
// that drive the line high instead
type Pins struct {
	Pins       [3]Pin
	BrokenHigh bool
}

var _ Sensors = Pins{}

func (p Pins) Beams() [3]bool {
	var result [3]bool
	for i, pin := range p.Pins {
		result[i] = pin.Get() == p.BrokenHigh
	}
	return result
}
