package actuator

import (
	"time"

	"github.com/calvinmclean/autolift"
)

// Indicator shows the travel direction. DirectionNone turns it off
type Indicator interface {
	Show(dir autolift.Direction, now time.Time)
}

// NoopIndicator is used when no indicator is fitted
type NoopIndicator struct{}

var _ Indicator = NoopIndicator{}

func (NoopIndicator) Show(autolift.Direction, time.Time) {}
