package solver

// DefaultMaxNodes bounds the number of search nodes explored per call.
const DefaultMaxNodes = 200000

// Options tunes the solver.
type Options struct {
	// Adjacency forbids the same category on two consecutive slots.
	Adjacency bool `json:"adjacency"`
	// MaxNodes caps the search; zero means DefaultMaxNodes.
	MaxNodes int `json:"max_nodes"`
	// Seed makes every call reproducible when non-zero.
	Seed uint64 `json:"seed"`
	// SkipRelaxation disables the linear relaxation pre-check.
	SkipRelaxation bool `json:"skip_relaxation"`
}

// SetDefaults applies sane defaults.
func (o *Options) SetDefaults() {
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
}
