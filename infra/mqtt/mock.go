package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/menucycle/core/schedule"
)

// MockPublisher records schedules. It is used in tests.
type MockPublisher struct {
	mu        sync.Mutex
	Schedules []schedule.Schedule
	Fail      bool
	notify    chan struct{}
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{notify: make(chan struct{}, 64)}
}

// PublishSchedule records s or fails when Fail is set.
func (m *MockPublisher) PublishSchedule(_ context.Context, s schedule.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Schedules = append(m.Schedules, s)
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return nil
}

// Published returns a copy of the recorded schedules.
func (m *MockPublisher) Published() []schedule.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schedule.Schedule(nil), m.Schedules...)
}

// Notify receives a value after each recorded schedule.
func (m *MockPublisher) Notify() <-chan struct{} { return m.notify }
