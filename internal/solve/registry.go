package solve

import (
	"context"
	"fmt"

	"github.com/probkit/dfonorm/internal/prep"
	"github.com/probkit/dfonorm/internal/prob"
)

// Exit flags reported by runners.
const (
	ExitConverged     = 0
	ExitTargetReached = 1
	ExitBudgetSpent   = 3
)

// Result is what a solver hands back for a canonical problem. X and F are
// in canonical coordinates; the caller maps X back through
// ProblemInfo.Restore before presenting it.
type Result struct {
	X               []float64 `json:"x"`
	F               float64   `json:"f"`
	ConstrViolation float64   `json:"constrViolation"`
	ExitFlag        int       `json:"exitFlag"`
	NumEval         int       `json:"numEval"`
}

// Runner executes a solver on a canonical problem. The pipeline treats it
// as an opaque external collaborator: it never inspects how the runner
// searches, only the result contract.
type Runner interface {
	Run(ctx context.Context, can *prep.Canonical, opts prob.Resolved) (*Result, error)
}

// Registry maps solver names to runners.
type Registry struct {
	runners map[string]Runner
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Runner)}
}

// Register binds a runner to a solver name, replacing any previous binding.
func (r *Registry) Register(name string, runner Runner) {
	r.runners[name] = runner
}

// Lookup returns the runner bound to name.
func (r *Registry) Lookup(name string) (Runner, error) {
	runner, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("%w: no runner registered for solver %q", prob.ErrInvalidOptions, name)
	}
	return runner, nil
}

// DefaultRegistry binds every canonical solver name to the mayfly-backed
// runner. The compatibility matrix still governs which name is chosen for a
// problem; the execution backend behind the boundary is shared.
func DefaultRegistry(seed int64) *Registry {
	r := NewRegistry()
	for name := range maxSupported {
		r.Register(name, NewMayflyRunner(seed))
	}
	return r
}
