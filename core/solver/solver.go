package solver

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/kilianp07/menucycle/core/logger"
	"github.com/kilianp07/menucycle/core/model"
	"github.com/kilianp07/menucycle/core/quota"
)

// Problem is the input of a single solve.
type Problem struct {
	Slots  []model.Slot
	Dishes []model.Dish
	Quotas quota.Table
}

// Stats describes the work done by a solve.
type Stats struct {
	Nodes      int
	Backtracks int
	Duration   time.Duration
}

// Result holds a complete assignment sorted by slot key.
type Result struct {
	Assignment model.Assignment
	Stats      Stats
}

// Solver assigns dishes to slots with a randomized exhaustive backtracking
// search. A Solver holds no mutable state and can be shared.
type Solver struct {
	opts Options
	log  logger.Logger
}

// New returns a Solver. A nil logger disables logging.
func New(opts Options, log logger.Logger) *Solver {
	opts.SetDefaults()
	if log == nil {
		log = nopLogger{}
	}
	return &Solver{opts: opts, log: log}
}

// Solve searches for an assignment satisfying the bijection, the per-half
// quotas, the pins and, when enabled, the adjacency rule. Infeasible problems
// return an error matching ErrInfeasible; the assignment is never partial.
// Stats are filled in both cases.
func (s *Solver) Solve(ctx context.Context, p Problem) (Result, error) {
	start := time.Now()
	st, err := s.newState(ctx, p)
	if err != nil {
		return Result{Stats: Stats{Duration: time.Since(start)}}, err
	}
	if len(st.slots) == 0 {
		return Result{Assignment: model.Assignment{}, Stats: Stats{Duration: time.Since(start)}}, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{Stats: Stats{Duration: time.Since(start)}}, fmt.Errorf("%w: %w", ErrSearchBudget, err)
	}
	if !s.opts.SkipRelaxation {
		if err := checkRelaxation(st); err != nil {
			if err == errRelaxationInfeasible {
				return Result{Stats: Stats{Duration: time.Since(start)}}, ErrInfeasible
			}
			s.log.Warnf("relaxation check skipped: %v", err)
		}
	}

	found := st.feasible() && st.search(0)
	stats := Stats{Nodes: st.nodes, Backtracks: st.backtracks, Duration: time.Since(start)}
	s.log.Debugw("search finished", map[string]any{
		"found":      found,
		"nodes":      st.nodes,
		"backtracks": st.backtracks,
		"adjacency":  s.opts.Adjacency,
	})
	if st.abort != nil {
		return Result{Stats: stats}, st.abort
	}
	if !found {
		return Result{Stats: stats}, ErrInfeasible
	}
	return Result{Assignment: st.assignment(), Stats: stats}, nil
}

// state is the mutable search state of a single Solve call. Categories and
// halves are mapped to dense indexes.
type state struct {
	ctx       context.Context
	rng       *rand.Rand
	adjacency bool
	maxNodes  int

	slots     []model.Slot // calendar order
	order     []int        // search order over slots
	slotHalf  []int
	slotPin   []int // category index or -1
	chosen    []int // category index or -1
	dishOf    []model.Dish
	halves    []model.Half
	cats      []model.Category
	bounds    []quota.Bounds
	stacks    [][]model.Dish // remaining dishes per category, shuffled
	placed    [][]int        // [half][cat]
	pinsLeft  [][]int        // [half][cat]
	free      []int          // [half]
	slotCount []int          // [half], constant
	lo, hi    [][]int        // scratch [half][cat]
	catLo     []int          // scratch
	catHi     []int          // scratch

	nodes      int
	backtracks int
	abort      error
}

func (s *Solver) newState(ctx context.Context, p Problem) (*state, error) {
	if len(p.Slots) != len(p.Dishes) {
		return nil, mismatch("%d slots for %d dishes", len(p.Slots), len(p.Dishes))
	}
	names := make(map[string]struct{}, len(p.Dishes))
	for _, d := range p.Dishes {
		if _, dup := names[d.Name]; dup {
			return nil, mismatch("duplicate dish %q", d.Name)
		}
		names[d.Name] = struct{}{}
	}
	keys := make(map[model.SlotKey]struct{}, len(p.Slots))
	for _, sl := range p.Slots {
		if _, dup := keys[sl.SlotKey]; dup {
			return nil, mismatch("duplicate slot %s", sl.SlotKey)
		}
		keys[sl.SlotKey] = struct{}{}
	}
	counts := model.CountByCategory(p.Dishes)
	for _, sl := range p.Slots {
		if sl.Pinned() && counts[sl.Pin] == 0 {
			return nil, mismatch("no dish of pinned category %q for %s", sl.Pin, sl.SlotKey)
		}
	}

	seed1, seed2 := rand.Uint64(), rand.Uint64()
	if s.opts.Seed != 0 {
		seed1, seed2 = s.opts.Seed, s.opts.Seed
	}
	st := &state{
		ctx:       ctx,
		rng:       rand.New(rand.NewPCG(seed1, seed2)),
		adjacency: s.opts.Adjacency,
		maxNodes:  s.opts.MaxNodes,
	}

	st.slots = append([]model.Slot(nil), p.Slots...)
	sort.SliceStable(st.slots, func(i, j int) bool { return st.slots[i].Less(st.slots[j].SlotKey) })

	catIdx := map[model.Category]int{}
	addCat := func(c model.Category) {
		if _, ok := catIdx[c]; !ok {
			catIdx[c] = len(st.cats)
			st.cats = append(st.cats, c)
		}
	}
	for _, d := range p.Dishes {
		addCat(d.Category)
	}
	for _, c := range p.Quotas.Categories() {
		addCat(c)
	}
	halfIdx := map[model.Half]int{}
	for _, sl := range st.slots {
		if _, ok := halfIdx[sl.Half]; !ok {
			halfIdx[sl.Half] = len(st.halves)
			st.halves = append(st.halves, sl.Half)
		}
	}

	nc, nh := len(st.cats), len(st.halves)
	st.bounds = make([]quota.Bounds, nc)
	st.stacks = make([][]model.Dish, nc)
	for i, c := range st.cats {
		st.bounds[i] = p.Quotas.Get(c)
	}
	for _, d := range p.Dishes {
		i := catIdx[d.Category]
		st.stacks[i] = append(st.stacks[i], d)
	}
	for _, stack := range st.stacks {
		st.rng.Shuffle(len(stack), func(i, j int) { stack[i], stack[j] = stack[j], stack[i] })
	}

	st.placed = grid(nh, nc)
	st.pinsLeft = grid(nh, nc)
	st.lo = grid(nh, nc)
	st.hi = grid(nh, nc)
	st.catLo = make([]int, nc)
	st.catHi = make([]int, nc)
	st.free = make([]int, nh)
	st.slotCount = make([]int, nh)

	n := len(st.slots)
	st.slotHalf = make([]int, n)
	st.slotPin = make([]int, n)
	st.chosen = make([]int, n)
	st.dishOf = make([]model.Dish, n)
	var pinned, rest []int
	for i, sl := range st.slots {
		h := halfIdx[sl.Half]
		st.slotHalf[i] = h
		st.free[h]++
		st.slotCount[h]++
		st.chosen[i] = -1
		st.slotPin[i] = -1
		if sl.Pinned() {
			c := catIdx[sl.Pin]
			st.slotPin[i] = c
			st.pinsLeft[h][c]++
			pinned = append(pinned, i)
		} else {
			rest = append(rest, i)
		}
	}
	st.order = append(pinned, rest...)
	return st, nil
}

func grid(rows, cols int) [][]int {
	g := make([][]int, rows)
	for i := range g {
		g[i] = make([]int, cols)
	}
	return g
}

// search fills st.order[depth:] and reports whether a complete assignment
// was found.
func (st *state) search(depth int) bool {
	if depth == len(st.order) {
		return true
	}
	st.nodes++
	if st.nodes > st.maxNodes {
		st.abort = ErrSearchBudget
		return false
	}
	if st.nodes&0xff == 0 && st.ctx.Err() != nil {
		st.abort = fmt.Errorf("%w: %w", ErrSearchBudget, st.ctx.Err())
		return false
	}

	si := st.order[depth]
	h := st.slotHalf[si]
	var cands []int
	if pin := st.slotPin[si]; pin >= 0 {
		cands = []int{pin}
	} else {
		cands = st.rng.Perm(len(st.cats))
	}
	for _, c := range cands {
		if len(st.stacks[c]) == 0 || st.placed[h][c] >= st.bounds[c].Max {
			continue
		}
		if st.adjacency && st.conflicts(si, c) {
			continue
		}
		st.place(si, c)
		if st.feasible() && st.search(depth+1) {
			return true
		}
		st.unplace(si, c)
		if st.abort != nil {
			return false
		}
		st.backtracks++
	}
	return false
}

func (st *state) place(si, c int) {
	h := st.slotHalf[si]
	stack := st.stacks[c]
	st.dishOf[si] = stack[len(stack)-1]
	st.stacks[c] = stack[:len(stack)-1]
	st.chosen[si] = c
	st.placed[h][c]++
	st.free[h]--
	if st.slotPin[si] >= 0 {
		st.pinsLeft[h][c]--
	}
}

func (st *state) unplace(si, c int) {
	h := st.slotHalf[si]
	st.stacks[c] = append(st.stacks[c], st.dishOf[si])
	st.dishOf[si] = model.Dish{}
	st.chosen[si] = -1
	st.placed[h][c]--
	st.free[h]++
	if st.slotPin[si] >= 0 {
		st.pinsLeft[h][c]++
	}
}

// conflicts reports whether c equals the category of a calendar neighbour
// of slot si.
func (st *state) conflicts(si, c int) bool {
	if si > 0 && st.chosen[si-1] == c {
		return true
	}
	if si+1 < len(st.chosen) && st.chosen[si+1] == c {
		return true
	}
	return false
}

// feasible checks necessary conditions for completing the current partial
// assignment: for every half and category the additional occurrences must
// fit in [lo, hi], the free slots of each half must be coverable, and every
// remaining dish must fit in some half.
func (st *state) feasible() bool {
	for c := range st.cats {
		st.catLo[c], st.catHi[c] = 0, 0
	}
	for h := range st.halves {
		pins := 0
		for c := range st.cats {
			pins += st.pinsLeft[h][c]
		}
		for c := range st.cats {
			b := st.bounds[c]
			placed := st.placed[h][c]
			if placed > b.Max {
				return false
			}
			lo := max(b.Min-placed, st.pinsLeft[h][c], 0)
			hi := min(b.Max-placed, len(st.stacks[c]), st.free[h]-(pins-st.pinsLeft[h][c]))
			if lo > hi {
				return false
			}
			st.lo[h][c], st.hi[h][c] = lo, hi
			st.catLo[c] += lo
			st.catHi[c] += hi
		}
	}
	for c := range st.cats {
		left := len(st.stacks[c])
		if left < st.catLo[c] || left > st.catHi[c] {
			return false
		}
	}
	// Tighten each half with what the other halves must or can absorb.
	for h := range st.halves {
		sumLo, sumHi := 0, 0
		for c := range st.cats {
			left := len(st.stacks[c])
			lo := max(st.lo[h][c], left-(st.catHi[c]-st.hi[h][c]))
			hi := min(st.hi[h][c], left-(st.catLo[c]-st.lo[h][c]))
			if lo > hi {
				return false
			}
			sumLo += lo
			sumHi += hi
		}
		if sumLo > st.free[h] || sumHi < st.free[h] {
			return false
		}
	}
	if st.adjacency {
		return st.adjacencyRoom()
	}
	return true
}

// adjacencyRoom checks that the dishes left of every category fit in the
// free slots without two of them being neighbours. A run of L consecutive
// eligible slots holds at most ceil(L/2) of them.
func (st *state) adjacencyRoom() bool {
	for c := range st.cats {
		left := len(st.stacks[c])
		if left == 0 {
			continue
		}
		room, run := 0, 0
		for i := range st.slots {
			if st.eligible(i, c) {
				run++
				continue
			}
			room += (run + 1) / 2
			run = 0
		}
		room += (run + 1) / 2
		if room < left {
			return false
		}
	}
	return true
}

func (st *state) eligible(i, c int) bool {
	if st.chosen[i] >= 0 {
		return false
	}
	if pin := st.slotPin[i]; pin >= 0 && pin != c {
		return false
	}
	return !st.conflicts(i, c)
}

func (st *state) assignment() model.Assignment {
	a := make(model.Assignment, len(st.slots))
	for i, sl := range st.slots {
		a[i] = model.Placement{Slot: sl, Dish: st.dishOf[i]}
	}
	return a
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
