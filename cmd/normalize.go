package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/probkit/dfonorm/internal/prob"
	"github.com/probkit/dfonorm/internal/probfile"
	"github.com/probkit/dfonorm/internal/solve"
	"github.com/probkit/dfonorm/internal/store"
	"github.com/spf13/cobra"
)

var (
	normProblemPath string
	normDataDir     string
	normSave        bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a problem without solving it",
	Long: `Loads a problem definition, runs the normalization pipeline and prints
the resulting transformation record: feasibility facts, reduction and
scaling maps, resolved options and the selected solver.`,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVar(&normProblemPath, "problem", "", "Problem definition file (required)")
	normalizeCmd.Flags().StringVar(&normDataDir, "data-dir", "./data", "Base directory for run reports")
	normalizeCmd.Flags().BoolVar(&normSave, "save", false, "Persist the run report")

	normalizeCmd.MarkFlagRequired("problem")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	p, opts, err := probfile.Load(normProblemPath)
	if err != nil {
		return err
	}

	can, res, info, err := solve.Prepare(prob.InvokeTop, p, opts)
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	slog.Info("Problem normalized",
		"problem", normProblemPath,
		"rawN", info.RawN,
		"canonicalN", can.N(),
		"rawType", info.RawType.String(),
		"refinedType", info.RefinedType.String(),
		"solver", res.Solver,
		"infeasible", info.Infeasible,
		"warnings", len(info.Warnings))

	printSummary(can.N(), res, info)

	if normSave {
		return saveReport(normDataDir, normProblemPath, res, info, nil, nil)
	}
	return nil
}

func printSummary(n int, res prob.Resolved, info *prob.ProblemInfo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "dimension\t%d -> %d\n", info.RawN, n)
	fmt.Fprintf(w, "type\t%s -> %s\n", info.RawType, info.RefinedType)
	fmt.Fprintf(w, "infeasible\t%v\n", info.Infeasible)
	fmt.Fprintf(w, "reduced\t%v\n", info.Reduced)
	fmt.Fprintf(w, "scaled\t%v\n", info.Scaled)
	fmt.Fprintf(w, "solver\t%s\n", res.Solver)
	fmt.Fprintf(w, "maxfun\t%d\n", res.MaxFun)
	fmt.Fprintf(w, "npt\t%d\n", res.NPT)
	fmt.Fprintf(w, "rhobeg\t%g\n", res.RhoBeg)
	fmt.Fprintf(w, "rhoend\t%g\n", res.RhoEnd)
	w.Flush()

	for _, d := range info.Warnings {
		fmt.Printf("warning [%s]: %s\n", d.ID, d.Message)
	}
}

func saveReport(dataDir, problemPath string, res prob.Resolved, info *prob.ProblemInfo, sol *solve.Result, x []float64) error {
	st, err := store.NewFSStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}
	report := &store.Report{
		RunID:     store.NewRunID(res.Solver, time.Now()),
		Problem:   problemPath,
		Invoker:   string(prob.InvokeTop),
		CreatedAt: time.Now(),
		Options:   res,
		Info:      info,
		Solution:  sol,
		X:         x,
	}
	if err := st.SaveReport(report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	slog.Info("Report saved", "runID", report.RunID, "dataDir", dataDir)
	return nil
}
