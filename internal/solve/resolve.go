package solve

import (
	"fmt"
	"math"

	"github.com/probkit/dfonorm/internal/num"
	"github.com/probkit/dfonorm/internal/prep"
	"github.com/probkit/dfonorm/internal/prob"
)

// Prepare runs the whole front end: normalize the raw problem, resolve the
// options against the canonical problem, and pick the solver. The warnings
// of both phases land on one ordered log in ProblemInfo.
func Prepare(invoker prob.Invoker, p *prob.Problem, user prob.Options) (*prep.Canonical, prob.Resolved, *prob.ProblemInfo, error) {
	scale := prob.DefaultScale
	if user.Scale != nil {
		scale = *user.Scale
	}
	can, info, err := prep.Normalize(invoker, p, scale)
	if err != nil {
		return nil, prob.Resolved{}, nil, err
	}
	res, err := Resolve(invoker, user, can, info)
	if err != nil {
		return nil, prob.Resolved{}, nil, err
	}
	return can, res, info, nil
}

// Resolve fills option defaults, cross-validates fields against the
// canonical problem and the chosen solver, and selects a solver when the
// caller has not forced a usable one. Each field follows the same state
// machine: unset takes the default, a valid user value is accepted, an
// invalid user value is corrected to the default with a warning. No
// correction is fatal; warnings never abort the pipeline.
func Resolve(invoker prob.Invoker, user prob.Options, can *prep.Canonical, info *prob.ProblemInfo) (prob.Resolved, error) {
	if err := invoker.Validate(); err != nil {
		return prob.Resolved{}, err
	}

	n := can.N()
	ptype := info.RefinedType
	res := prob.Resolved{
		Classical: boolOr(user.Classical, prob.DefaultClassical),
		Scale:     boolOr(user.Scale, prob.DefaultScale),
		Quiet:     boolOr(user.Quiet, prob.DefaultQuiet),
		Debug:     boolOr(user.Debug, prob.DefaultDebug),
		ChkFunVal: boolOr(user.ChkFunVal, prob.DefaultChkFunVal),
	}

	res.FTarget = prob.DefaultFTarget()
	if user.FTarget != nil {
		if math.IsNaN(*user.FTarget) {
			info.Warnf(optWarn("ftarget"), "ftarget is NaN; using default -Inf")
		} else {
			res.FTarget = *user.FTarget
		}
	}

	res.RhoBeg = prob.DefaultRhoBeg
	if user.RhoBeg != nil {
		if !num.IsFinite(*user.RhoBeg) || *user.RhoBeg <= 0 {
			info.Warnf(optWarn("rhobeg"), "rhobeg must be a positive finite scalar; using default %g", prob.DefaultRhoBeg)
		} else {
			res.RhoBeg = *user.RhoBeg
		}
	}
	res.RhoEnd = prob.DefaultRhoEnd
	if user.RhoEnd != nil {
		if !num.IsFinite(*user.RhoEnd) || *user.RhoEnd <= 0 {
			info.Warnf(optWarn("rhoend"), "rhoend must be a positive finite scalar; using default %g", prob.DefaultRhoEnd)
		} else {
			res.RhoEnd = *user.RhoEnd
		}
	}
	if info.SubstantiallyScaled {
		// The radii are expressed in the scaled space, where the bounded
		// box is [-1,1]^n: restart from rhobeg=1 and keep the end radius
		// proportional.
		res.RhoEnd = res.RhoEnd / res.RhoBeg
		res.RhoBeg = 1
	}
	res.RhoBeg = math.Max(res.RhoBeg, num.Eps)
	res.RhoEnd = math.Max(res.RhoEnd, num.Eps)
	if res.RhoEnd > res.RhoBeg {
		info.Warnf(optWarn("rhoend"), "rhoend %g exceeds rhobeg %g; lowered to rhobeg", res.RhoEnd, res.RhoBeg)
		res.RhoEnd = res.RhoBeg
	}

	res.MaxFun = prob.MaxFunPerVariable * n
	if user.MaxFun != nil {
		if *user.MaxFun <= 0 {
			info.Warnf(optWarn("maxfun"), "maxfun must be a positive integer; using default %d", res.MaxFun)
		} else {
			res.MaxFun = *user.MaxFun
		}
	}

	nptLo, nptHi := n+2, (n+1)*(n+2)/2
	res.NPT = min(prob.DefaultNPT(n), nptHi)
	userNPT := false
	if user.NPT != nil {
		if *user.NPT < nptLo || *user.NPT > nptHi {
			info.Warnf(optWarn("npt"), "npt must satisfy %d <= npt <= %d; using default %d", nptLo, nptHi, res.NPT)
		} else {
			res.NPT = *user.NPT
			userNPT = true
		}
	}

	solver, err := resolveSolver(invoker, user.Solver, ptype, n, res.MaxFun, info)
	if err != nil {
		return prob.Resolved{}, err
	}

	switch {
	case usesNPT(solver):
		// The interpolation set must leave at least one evaluation for the
		// search itself.
		if npt := min(res.NPT, res.MaxFun-1); npt >= nptLo && npt < res.NPT {
			if userNPT {
				info.Warnf(optWarn("npt"), "npt lowered to %d to fit the evaluation budget", npt)
			}
			res.NPT = npt
		}
	case user.NPT != nil:
		info.Warnf(optWarn("npt"), "npt is not used by solver %s", solver)
	}

	if solver == SolverBOBYQA {
		if w := minBoundWidth(can.LB, can.UB); num.IsFinite(w) {
			// Zero-width pairs can reach here when every variable is fixed;
			// the epsilon floor still holds after the clamp.
			if rb := math.Max(w/2, num.Eps); res.RhoBeg > rb {
				info.Warnf(optWarn("rhobeg"), "rhobeg lowered to %g: solver %s requires rhobeg <= min(ub-lb)/2", rb, solver)
				res.RhoBeg = rb
				res.RhoEnd = math.Min(res.RhoEnd, res.RhoBeg)
			}
		}
	}

	if m := minMaxFun(solver, n, res.NPT); res.MaxFun < m {
		info.Warnf(optWarn("maxfun"), "maxfun %d is below the minimum sample budget of solver %s; raised to %d",
			res.MaxFun, solver, m)
		res.MaxFun = m
	}

	if !Compatible(solver, ptype) {
		// Indicates a defect in the selection table, never user error.
		return prob.Resolved{}, fmt.Errorf("%w: selected solver %s cannot handle %v problems",
			prob.ErrUnexpected, solver, ptype)
	}

	res.Solver = solver
	info.Solver = solver
	return res, nil
}

// resolveSolver validates a forced solver choice and falls back to the
// decision table when no usable choice was forced.
func resolveSolver(invoker prob.Invoker, forced string, ptype prob.ProblemType, n, maxfun int, info *prob.ProblemInfo) (string, error) {
	if invoker.IsSolver() {
		if forced != "" && forced != string(invoker) {
			info.Warnf(prob.WarnSolverReplaced, "options named solver %q but %s was invoked directly; option ignored",
				forced, invoker)
		}
		forced = string(invoker)
	}
	if forced != "" {
		switch {
		case !KnownSolver(forced):
			info.Warnf(prob.WarnSolverReplaced, "unknown solver %q; selecting automatically", forced)
			forced = ""
		case !Compatible(forced, ptype):
			info.Warnf(prob.WarnSolverReplaced, "solver %s cannot handle %v problems; selecting automatically",
				forced, ptype)
			forced = ""
		}
	}
	if forced != "" {
		return forced, nil
	}
	return selectSolver(ptype, n, maxfun)
}

// minBoundWidth returns the smallest ub-lb over variables bounded on both
// sides, or +Inf when no variable is.
func minBoundWidth(lb, ub []float64) float64 {
	w := math.Inf(1)
	for i := range lb {
		if num.IsFinite(lb[i]) && num.IsFinite(ub[i]) {
			w = math.Min(w, ub[i]-lb[i])
		}
	}
	return w
}

func optWarn(field string) string {
	return prob.WarnOptionCorrected + ":" + field
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}
