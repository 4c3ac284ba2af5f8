package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/menucycle/core/calendar"
	"github.com/kilianp07/menucycle/core/catalogue"
	coremetrics "github.com/kilianp07/menucycle/core/metrics"
	"github.com/kilianp07/menucycle/core/quota"
	"github.com/kilianp07/menucycle/core/schedule"
	"github.com/kilianp07/menucycle/core/solver"
	"github.com/kilianp07/menucycle/infra/logger"
	"github.com/kilianp07/menucycle/internal/eventbus"
)

// Generator runs the full pipeline behind a generation request and keeps
// the latest schedule. Generations are serialized.
type Generator struct {
	// busy holds a token while a generation runs.
	busy chan struct{}

	catalogue catalogue.Provider
	policy    quota.Policy
	grid      calendar.Grid
	solver    *solver.Solver
	adjacency bool

	holder *schedule.Holder
	bus    *eventbus.Bus[schedule.Schedule]
	sink   coremetrics.MetricsSink
	log    logger.Logger
	now    func() time.Time
}

// GeneratorDeps are the collaborators of a Generator. Holder, Bus, Sink and
// Log are optional.
type GeneratorDeps struct {
	Catalogue catalogue.Provider
	Policy    quota.Policy
	Grid      calendar.Grid
	Solver    solver.Options
	Holder    *schedule.Holder
	Bus       *eventbus.Bus[schedule.Schedule]
	Sink      coremetrics.MetricsSink
	Log       logger.Logger
}

// NewGenerator validates deps and returns a Generator.
func NewGenerator(d GeneratorDeps) (*Generator, error) {
	if d.Catalogue == nil {
		return nil, fmt.Errorf("generator requires a catalogue")
	}
	if d.Policy == nil {
		d.Policy = quota.Derived{}
	}
	if err := d.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	if d.Holder == nil {
		d.Holder = &schedule.Holder{}
	}
	if d.Sink == nil {
		d.Sink = coremetrics.NopSink{}
	}
	if d.Log == nil {
		d.Log = logger.New("generator")
	}
	return &Generator{
		busy:      make(chan struct{}, 1),
		catalogue: d.Catalogue,
		policy:    d.Policy,
		grid:      d.Grid,
		solver:    solver.New(d.Solver, d.Log),
		adjacency: d.Solver.Adjacency,
		holder:    d.Holder,
		bus:       d.Bus,
		sink:      d.Sink,
		log:       d.Log,
		now:       time.Now,
	}, nil
}

// Generate loads the catalogue, solves a new cycle, replaces the held
// schedule and announces it. On failure the held schedule is unchanged.
// A caller waiting behind another generation gives up when ctx is done.
func (g *Generator) Generate(ctx context.Context) (schedule.Schedule, error) {
	select {
	case g.busy <- struct{}{}:
	case <-ctx.Done():
		return schedule.Schedule{}, fmt.Errorf("waiting for generation: %w", ctx.Err())
	}
	defer func() { <-g.busy }()

	start := g.now()
	ev := coremetrics.GenerationEvent{Time: start}
	s, stats, err := g.generate(ctx, &ev)
	ev.Nodes, ev.Backtracks = stats.Nodes, stats.Backtracks
	ev.Duration = g.now().Sub(start)
	if err != nil {
		ev.Reason = err.Error()
		ev.Infeasible = errors.Is(err, solver.ErrInfeasible)
		g.record(ev)
		g.log.Errorf("menu generation failed: %v", err)
		return schedule.Schedule{}, err
	}

	g.holder.Replace(s)
	if g.bus != nil {
		g.bus.Publish(s)
	}
	ev.Success = true
	ev.ScheduleID = s.ID
	g.record(ev)
	g.log.Infow("menu generated", map[string]any{
		"id":          s.ID,
		"dishes":      ev.Dishes,
		"nodes":       stats.Nodes,
		"backtracks":  stats.Backtracks,
		"duration_ms": ev.Duration.Milliseconds(),
	})
	return s, nil
}

func (g *Generator) generate(ctx context.Context, ev *coremetrics.GenerationEvent) (schedule.Schedule, solver.Stats, error) {
	dishes, err := g.catalogue.Load(ctx)
	if err != nil {
		return schedule.Schedule{}, solver.Stats{}, fmt.Errorf("load catalogue: %w", err)
	}
	ev.Dishes = len(dishes)
	table, err := g.policy.Derive(dishes)
	if err != nil {
		return schedule.Schedule{}, solver.Stats{}, fmt.Errorf("quotas: %w", err)
	}
	minSum, maxSum := table.Totals()
	g.log.Debugf("catalogue has %d dishes, quota totals per half [%d, %d]", len(dishes), minSum, maxSum)

	p := solver.Problem{Slots: g.grid.Build(), Dishes: dishes, Quotas: table}
	res, err := g.solver.Solve(ctx, p)
	if err != nil {
		return schedule.Schedule{}, res.Stats, err
	}
	if err := solver.Verify(p, res.Assignment, g.adjacency); err != nil {
		return schedule.Schedule{}, res.Stats, fmt.Errorf("solver returned an invalid assignment: %w", err)
	}
	return schedule.New(res.Assignment, g.now()), res.Stats, nil
}

func (g *Generator) record(ev coremetrics.GenerationEvent) {
	if err := g.sink.RecordGeneration(ev); err != nil {
		g.log.Warnf("record generation metrics: %v", err)
	}
}

// Current returns the held schedule or schedule.ErrNotGenerated.
func (g *Generator) Current() (schedule.Schedule, error) {
	return g.holder.Current()
}
