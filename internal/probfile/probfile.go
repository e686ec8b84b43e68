// Package probfile loads optimization problem definitions from YAML files.
// Objectives and nonlinear constraint sets are referenced by catalog name;
// everything else (x0, bounds, linear systems, options) is data.
package probfile

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/probkit/dfonorm/internal/prob"
)

// defaults seed the koanf layer below the file so a minimal problem file
// only needs x0.
var defaults = map[string]any{
	"objective": "sphere",
}

type fileSpec struct {
	Objective string      `koanf:"objective"`
	X0        []float64   `koanf:"x0"`
	LB        []float64   `koanf:"lb"`
	UB        []float64   `koanf:"ub"`
	AIneq     [][]float64 `koanf:"aineq"`
	BIneq     []float64   `koanf:"bineq"`
	AEq       [][]float64 `koanf:"aeq"`
	BEq       []float64   `koanf:"beq"`
	Nonlinear string      `koanf:"nonlinear"`
}

// Load reads a problem file and returns the raw problem plus the user
// options it names. Option fields absent from the file stay unset so the
// resolver applies its defaults.
func Load(path string) (*prob.Problem, prob.Options, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, prob.Options{}, fmt.Errorf("loading defaults: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, prob.Options{}, fmt.Errorf("loading problem file %s: %w", path, err)
	}

	var spec fileSpec
	if err := k.Unmarshal("", &spec); err != nil {
		return nil, prob.Options{}, fmt.Errorf("parsing problem file %s: %w", path, err)
	}

	objective, err := LookupObjective(spec.Objective)
	if err != nil {
		return nil, prob.Options{}, err
	}
	p := &prob.Problem{
		Objective: objective,
		X0:        spec.X0,
		AIneq:     spec.AIneq,
		BIneq:     spec.BIneq,
		AEq:       spec.AEq,
		BEq:       spec.BEq,
		LB:        spec.LB,
		UB:        spec.UB,
	}
	if spec.Nonlinear != "" {
		p.NonlCon, err = LookupConstraint(spec.Nonlinear)
		if err != nil {
			return nil, prob.Options{}, err
		}
	}

	return p, loadOptions(k), nil
}

// loadOptions picks up only the option keys present in the file; unset
// fields keep their nil pointers.
func loadOptions(k *koanf.Koanf) prob.Options {
	var o prob.Options
	if k.Exists("options.npt") {
		o.NPT = prob.IntOpt(k.Int("options.npt"))
	}
	if k.Exists("options.maxfun") {
		o.MaxFun = prob.IntOpt(k.Int("options.maxfun"))
	}
	if k.Exists("options.rhobeg") {
		o.RhoBeg = prob.FloatOpt(k.Float64("options.rhobeg"))
	}
	if k.Exists("options.rhoend") {
		o.RhoEnd = prob.FloatOpt(k.Float64("options.rhoend"))
	}
	if k.Exists("options.ftarget") {
		o.FTarget = prob.FloatOpt(k.Float64("options.ftarget"))
	}
	if k.Exists("options.classical") {
		o.Classical = prob.BoolOpt(k.Bool("options.classical"))
	}
	if k.Exists("options.scale") {
		o.Scale = prob.BoolOpt(k.Bool("options.scale"))
	}
	if k.Exists("options.quiet") {
		o.Quiet = prob.BoolOpt(k.Bool("options.quiet"))
	}
	if k.Exists("options.debug") {
		o.Debug = prob.BoolOpt(k.Bool("options.debug"))
	}
	if k.Exists("options.chkfunval") {
		o.ChkFunVal = prob.BoolOpt(k.Bool("options.chkfunval"))
	}
	o.Solver = k.String("options.solver")
	return o
}
