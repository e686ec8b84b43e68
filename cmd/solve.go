package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/probkit/dfonorm/internal/prob"
	"github.com/probkit/dfonorm/internal/probfile"
	"github.com/probkit/dfonorm/internal/solve"
	"github.com/probkit/dfonorm/internal/store"
	"github.com/spf13/cobra"
)

var (
	solveProblemPath string
	solveDataDir     string
	solveSave        bool
	solveTrace       bool
	solveSeed        int64
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Normalize a problem and run the selected solver",
	Long: `Loads a problem definition, runs the normalization pipeline, dispatches
the canonical problem to the selected solver and maps the solution back to
the original variable space.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveProblemPath, "problem", "", "Problem definition file (required)")
	solveCmd.Flags().StringVar(&solveDataDir, "data-dir", "./data", "Base directory for run reports")
	solveCmd.Flags().BoolVar(&solveSave, "save", false, "Persist the run report")
	solveCmd.Flags().BoolVar(&solveTrace, "trace", false, "Record an evaluation trace (implies --save)")
	solveCmd.Flags().Int64Var(&solveSeed, "seed", 42, "Random seed for the solver backend")

	solveCmd.MarkFlagRequired("problem")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	p, opts, err := probfile.Load(solveProblemPath)
	if err != nil {
		return err
	}

	can, res, info, err := solve.Prepare(prob.InvokeTop, p, opts)
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}
	if info.Infeasible {
		printSummary(can.N(), res, info)
		return fmt.Errorf("problem is infeasible; not solving")
	}

	runID := store.NewRunID(res.Solver, time.Now())
	if solveTrace {
		solveSave = true
		tw, err := store.NewTraceWriter(solveDataDir, runID)
		if err != nil {
			return err
		}
		defer tw.Close()

		// Wrap the canonical objective so every solver evaluation lands in
		// the trace.
		inner := can.Objective
		can.Objective = func(x []float64) float64 {
			f := inner(x)
			if err := tw.Record(f, can.MaxViolation(x)); err != nil {
				slog.Warn("Trace write failed", "error", err)
			}
			return f
		}
	}

	var sol *solve.Result
	if info.NoFreeX {
		// Every variable is pinned by its bounds: evaluate the one
		// remaining point instead of spending the budget on it.
		slog.Info("All variables fixed; evaluating the pinned point",
			"constrViolation", info.ConstrV0)
		pinned := append([]float64(nil), can.X0...)
		sol = &solve.Result{
			X:               pinned,
			F:               can.Objective(pinned),
			ConstrViolation: info.ConstrV0,
			ExitFlag:        solve.ExitConverged,
			NumEval:         1,
		}
	} else {
		registry := solve.DefaultRegistry(solveSeed)
		runner, err := registry.Lookup(res.Solver)
		if err != nil {
			return err
		}

		slog.Info("Solving", "solver", res.Solver, "n", can.N(), "maxfun", res.MaxFun)
		start := time.Now()
		sol, err = runner.Run(cmd.Context(), can, res)
		if err != nil {
			return fmt.Errorf("solver %s failed: %w", res.Solver, err)
		}
		slog.Debug("Solver finished", "elapsed", time.Since(start))
	}

	x, err := info.Restore(sol.X)
	if err != nil {
		return err
	}

	slog.Info("Solved",
		"solver", res.Solver,
		"f", sol.F,
		"constrViolation", sol.ConstrViolation,
		"exitFlag", sol.ExitFlag,
		"numEval", sol.NumEval)

	printSummary(can.N(), res, info)
	fmt.Printf("f = %.9g\n", sol.F)
	fmt.Printf("x = %v\n", x)

	if solveSave {
		report := &store.Report{
			RunID:     runID,
			Problem:   solveProblemPath,
			Invoker:   string(prob.InvokeTop),
			CreatedAt: time.Now(),
			Options:   res,
			Info:      info,
			Solution:  sol,
			X:         x,
		}
		st, err := store.NewFSStore(solveDataDir)
		if err != nil {
			return fmt.Errorf("failed to create report store: %w", err)
		}
		if err := st.SaveReport(report); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		slog.Info("Report saved", "runID", runID, "dataDir", solveDataDir)
	}
	return nil
}
