package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordGeneration(GenerationEvent) error {
	r.count++
	return r.err
}

// TestMultiSink ensures events are forwarded to all sinks, even after one fails.
func TestMultiSink(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	err := m.RecordGeneration(GenerationEvent{Success: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("events not forwarded")
	}
}

func TestGenerationEvent_Outcome(t *testing.T) {
	cases := map[string]GenerationEvent{
		"success":    {Success: true},
		"infeasible": {Infeasible: true, Reason: "no assignment"},
		"error":      {Reason: "catalogue unreadable"},
	}
	for want, ev := range cases {
		if got := ev.Outcome(); got != want {
			t.Errorf("Outcome() = %q, want %q", got, want)
		}
	}
}
