package prob

import "math"

// Option defaults. MaxFun defaults to MaxFunPerVariable*n.
const (
	DefaultRhoBeg     = 1.0
	DefaultRhoEnd     = 1e-6
	MaxFunPerVariable = 500
	DefaultClassical  = false
	DefaultScale      = false
	DefaultQuiet      = false
	DefaultDebug      = false
	DefaultChkFunVal  = false
)

// DefaultFTarget is -Inf: by default no target value stops the solver early.
func DefaultFTarget() float64 { return math.Inf(-1) }

// DefaultNPT is the customary number of interpolation points, 2n+1.
func DefaultNPT(n int) int { return 2*n + 1 }

// Options is the user-facing option set. Nil pointer fields are unset and
// take defaults; set-but-invalid fields are corrected with a warning.
// Solver is empty when the caller leaves the choice to the selector.
type Options struct {
	NPT       *int
	MaxFun    *int
	RhoBeg    *float64
	RhoEnd    *float64
	FTarget   *float64
	Classical *bool
	Scale     *bool
	Quiet     *bool
	Debug     *bool
	ChkFunVal *bool
	Solver    string
}

// Resolved is the fully-resolved option set handed to a solver.
// Immutable once produced by the resolver.
type Resolved struct {
	NPT       int     `json:"npt"`
	MaxFun    int     `json:"maxfun"`
	RhoBeg    float64 `json:"rhobeg"`
	RhoEnd    float64 `json:"rhoend"`
	FTarget   float64 `json:"ftarget"`
	Classical bool    `json:"classical"`
	Scale     bool    `json:"scale"`
	Quiet     bool    `json:"quiet"`
	Debug     bool    `json:"debug"`
	ChkFunVal bool    `json:"chkfunval"`
	Solver    string  `json:"solver"`
}

// IntOpt, FloatOpt and BoolOpt build pointer fields for Options literals.
func IntOpt(v int) *int           { return &v }
func FloatOpt(v float64) *float64 { return &v }
func BoolOpt(v bool) *bool        { return &v }
