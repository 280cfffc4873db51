// Package metrics exposes the elevator's counters and gauges to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "autolift"

var (
	// RequestsTotal counts registered requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of registered floor requests",
		},
		[]string{"kind", "floor"}, // kind: C/HU/HD
	)

	// TransitionsTotal counts state machine transitions
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Total number of state transitions",
		},
		[]string{"to"},
	)

	// ArrivalsTotal counts arrivals at a target floor
	ArrivalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arrivals_total",
			Help:      "Total number of arrivals",
		},
		[]string{"floor"},
	)

	// TravelDuration measures the time from move start to arrival
	TravelDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "travel_duration_seconds",
			Help:      "Time from move start to arrival",
			Buckets:   []float64{.5, 1, 2, 4, 8, 16, 32},
		},
	)

	// MoveTimeouts counts moves abandoned by the move timeout
	MoveTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "move_timeouts_total",
			Help:      "Total number of move timeouts",
		},
	)

	// EmergencyStops counts emergency stops
	EmergencyStops = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emergency_stops_total",
			Help:      "Total number of emergency stops",
		},
	)

	// Floor tracks the confirmed floor
	Floor = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "floor",
			Help:      "Last confirmed floor",
		},
	)

	// State is 1 for the current state and 0 for the others
	State = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Current state machine state",
		},
		[]string{"state"},
	)

	// PhotoReadings counts floor readings pushed by the console
	PhotoReadings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_readings_total",
			Help:      "Total number of floor readings pushed by the controller",
		},
		[]string{"reading"}, // FLOOR=n/MOVING/ERROR
	)

	// Uptime tracks uptime
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Controller uptime in seconds",
		},
	)
)
