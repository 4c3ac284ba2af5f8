package metrics

import (
	"errors"
	"time"
)

// GenerationEvent describes one generation request.
type GenerationEvent struct {
	ScheduleID string
	Success    bool
	Infeasible bool
	// Reason is the failure message, empty on success.
	Reason     string
	Dishes     int
	Nodes      int
	Backtracks int
	Duration   time.Duration
	Time       time.Time
}

// Outcome returns the label used for the event: "success", "infeasible" or
// "error".
func (e GenerationEvent) Outcome() string {
	switch {
	case e.Success:
		return "success"
	case e.Infeasible:
		return "infeasible"
	default:
		return "error"
	}
}

// MetricsSink records generation events for observability purposes.
type MetricsSink interface {
	RecordGeneration(ev GenerationEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationEvent) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordGeneration forwards the event to every sink, even after a failure,
// and returns the joined errors.
func (m *MultiSink) RecordGeneration(ev GenerationEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordGeneration(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
