package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/menucycle/core/calendar"
	coremetrics "github.com/kilianp07/menucycle/core/metrics"
	"github.com/kilianp07/menucycle/core/model"
	"github.com/kilianp07/menucycle/core/schedule"
	"github.com/kilianp07/menucycle/core/solver"
	"github.com/kilianp07/menucycle/infra/catalogue"
	"github.com/kilianp07/menucycle/infra/logger"
	"github.com/kilianp07/menucycle/internal/eventbus"
)

type recordSink struct {
	mu     sync.Mutex
	events []coremetrics.GenerationEvent
}

func (r *recordSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type failingCatalogue struct{}

func (failingCatalogue) Load(context.Context) ([]model.Dish, error) {
	return nil, errors.New("disk on fire")
}

func dishes(mix map[model.Category]int) []model.Dish {
	var out []model.Dish
	for _, cat := range []model.Category{"egg", "fish", "beef", "chicken", "pork", "veg", "pasta", "lamb"} {
		for i := 0; i < mix[cat]; i++ {
			out = append(out, model.Dish{Name: fmt.Sprintf("%s %d", cat, i), Category: cat})
		}
	}
	return out
}

func defaultDishes() []model.Dish {
	return dishes(map[model.Category]int{"egg": 3, "fish": 2, "beef": 1, "chicken": 4, "pork": 4, "veg": 5, "pasta": 3, "lamb": 4})
}

func newGenerator(t *testing.T, src catalogue.StaticSource, bus *eventbus.Bus[schedule.Schedule], sink coremetrics.MetricsSink) *Generator {
	t.Helper()
	g, err := NewGenerator(GeneratorDeps{
		Catalogue: src,
		Grid:      calendar.Default(),
		Bus:       bus,
		Sink:      sink,
		Log:       logger.NopLogger{},
	})
	require.NoError(t, err)
	return g
}

func TestGenerator_Generate(t *testing.T) {
	bus := eventbus.New[schedule.Schedule](0)
	events := bus.Subscribe()
	sink := &recordSink{}
	g := newGenerator(t, catalogue.StaticSource{Dishes: defaultDishes()}, bus, sink)

	_, err := g.Current()
	assert.ErrorIs(t, err, schedule.ErrNotGenerated)

	s, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 26, s.Menu.Len())
	assert.Len(t, s.Assignment, 26)
	for h := 1; h <= 2; h++ {
		name, ok := s.Menu.Lookup(model.SlotKey{Half: model.Half(h), Day: model.Saturday, Time: model.Dinner})
		require.True(t, ok)
		assert.Contains(t, name, "egg")
	}

	current, err := g.Current()
	require.NoError(t, err)
	assert.Equal(t, s.ID, current.ID)
	assert.Equal(t, s.ID, (<-events).ID)

	require.Len(t, sink.events, 1)
	assert.True(t, sink.events[0].Success)
	assert.Equal(t, s.ID, sink.events[0].ScheduleID)
	assert.Equal(t, 26, sink.events[0].Dishes)
	assert.Positive(t, sink.events[0].Nodes)
}

func TestGenerator_InfeasibleKeepsPrevious(t *testing.T) {
	sink := &recordSink{}
	src := catalogue.StaticSource{Dishes: defaultDishes()}
	g := newGenerator(t, src, nil, sink)
	first, err := g.Generate(context.Background())
	require.NoError(t, err)

	g.catalogue = catalogue.StaticSource{Dishes: dishes(map[model.Category]int{"egg": 1, "fish": 5, "beef": 5, "chicken": 5, "veg": 10})}
	_, err = g.Generate(context.Background())
	assert.ErrorIs(t, err, solver.ErrInfeasible)

	current, err := g.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	require.Len(t, sink.events, 2)
	assert.Equal(t, "infeasible", sink.events[1].Outcome())
}

func TestGenerator_InputMismatch(t *testing.T) {
	sink := &recordSink{}
	g := newGenerator(t, catalogue.StaticSource{Dishes: defaultDishes()[:25]}, nil, sink)
	_, err := g.Generate(context.Background())
	assert.ErrorIs(t, err, solver.ErrInputMismatch)
	_, err = g.Current()
	assert.ErrorIs(t, err, schedule.ErrNotGenerated)
}

func TestGenerator_CatalogueError(t *testing.T) {
	sink := &recordSink{}
	g, err := NewGenerator(GeneratorDeps{Catalogue: failingCatalogue{}, Grid: calendar.Default(), Sink: sink, Log: logger.NopLogger{}})
	require.NoError(t, err)
	_, err = g.Generate(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, solver.ErrInfeasible)
	require.Len(t, sink.events, 1)
	assert.Equal(t, "error", sink.events[0].Outcome())
}

func TestGenerator_Concurrent(t *testing.T) {
	g := newGenerator(t, catalogue.StaticSource{Dishes: defaultDishes()}, nil, nil)
	var wg sync.WaitGroup
	ids := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := g.Generate(context.Background())
			if assert.NoError(t, err) {
				ids <- s.ID
			}
		}()
	}
	wg.Wait()
	close(ids)
	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 8)

	current, err := g.Current()
	require.NoError(t, err)
	assert.True(t, seen[current.ID])
}

func TestGenerator_WaitingCallerGivesUp(t *testing.T) {
	sink := &recordSink{}
	g := newGenerator(t, catalogue.StaticSource{Dishes: defaultDishes()}, nil, sink)

	// Simulate a generation in flight.
	g.busy <- struct{}{}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := g.Generate(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, sink.events)
	_, err = g.Current()
	assert.ErrorIs(t, err, schedule.ErrNotGenerated)

	<-g.busy
	_, err = g.Generate(context.Background())
	require.NoError(t, err)
}

func TestNewGenerator_Validation(t *testing.T) {
	_, err := NewGenerator(GeneratorDeps{Grid: calendar.Default()})
	assert.Error(t, err)
	_, err = NewGenerator(GeneratorDeps{Catalogue: catalogue.StaticSource{}, Grid: calendar.Grid{}})
	assert.Error(t, err)
}
