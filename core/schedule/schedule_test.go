package schedule

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/menucycle/core/calendar"
	"github.com/kilianp07/menucycle/core/model"
)

func sampleAssignment() model.Assignment {
	slots := calendar.Default().Build()
	a := make(model.Assignment, len(slots))
	for i, s := range slots {
		cat := model.Category("veg")
		if s.Pinned() {
			cat = s.Pin
		}
		a[i] = model.Placement{Slot: s, Dish: model.Dish{Name: s.SlotKey.String(), Category: cat}}
	}
	return a
}

func TestFormat_Shape(t *testing.T) {
	a := sampleAssignment()
	m := Format(a)
	require.Len(t, m, 2)
	assert.Equal(t, 26, m.Len())
	assert.Len(t, m[1], 7)
	assert.Len(t, m[1]["Saturday"], 1)
	_, ok := m[1]["Saturday"]["Lunch"]
	assert.False(t, ok)
	assert.Equal(t, "week 2 Sunday Dinner", m[2]["Sunday"]["Dinner"])

	raw, err := json.Marshal(m)
	require.NoError(t, err)
	var generic map[string]map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "week 1 Monday Lunch", generic["1"]["Monday"]["Lunch"])
}

func TestMenu_RoundTrip(t *testing.T) {
	a := sampleAssignment()
	m := Format(a)
	for _, p := range a {
		name, ok := m.Lookup(p.Slot.SlotKey)
		require.True(t, ok)
		assert.Equal(t, p.Dish.Name, name)
	}

	entries, err := m.Entries()
	require.NoError(t, err)
	require.Len(t, entries, len(a))
	for i, e := range entries {
		assert.Equal(t, a[i].Slot.SlotKey, e.Slot)
		assert.Equal(t, a[i].Dish.Name, e.Dish)
	}
}

func TestMenu_EntriesRejectsUnknownNames(t *testing.T) {
	_, err := Menu{1: {"Funday": {"Lunch": "x"}}}.Entries()
	assert.Error(t, err)
	_, err = Menu{1: {"Monday": {"Brunch": "x"}}}.Entries()
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	s := New(sampleAssignment(), now)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, now.UTC(), s.GeneratedAt)
	assert.Equal(t, 26, s.Menu.Len())
	assert.NotEqual(t, s.ID, New(sampleAssignment(), now).ID)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Assignment")
}

func TestHolder(t *testing.T) {
	var h Holder
	_, err := h.Current()
	assert.ErrorIs(t, err, ErrNotGenerated)

	first := New(sampleAssignment(), time.Now())
	h.Replace(first)
	got, err := h.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Replace(New(sampleAssignment(), time.Now()))
		}()
		go func() {
			defer wg.Done()
			s, err := h.Current()
			assert.NoError(t, err)
			assert.Equal(t, 26, s.Menu.Len())
		}()
	}
	wg.Wait()
}
