package schedule

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/menucycle/core/model"
)

// ErrNotGenerated is returned by Holder.Current before the first successful
// generation.
var ErrNotGenerated = errors.New("no menu generated yet")

// Schedule is one generated two-week cycle.
type Schedule struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Menu        Menu             `json:"menu"`
	Assignment  model.Assignment `json:"-"`
}

// New wraps an assignment into a schedule with a fresh identifier.
func New(a model.Assignment, now time.Time) Schedule {
	return Schedule{
		ID:          uuid.NewString(),
		GeneratedAt: now.UTC(),
		Menu:        Format(a),
		Assignment:  a,
	}
}

// Holder keeps the current schedule. The zero value holds nothing.
type Holder struct {
	mu      sync.RWMutex
	current *Schedule
}

// Current returns the held schedule or ErrNotGenerated.
func (h *Holder) Current() (Schedule, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return Schedule{}, ErrNotGenerated
	}
	return *h.current, nil
}

// Replace swaps the held schedule.
func (h *Holder) Replace(s Schedule) {
	h.mu.Lock()
	h.current = &s
	h.mu.Unlock()
}
