package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/probkit/dfonorm/internal/store"
	"github.com/spf13/cobra"
)

var (
	reportDataDir string
	olderThanDays int
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage stored run reports",
}

var listReportsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored run reports",
	RunE:  runListReports,
}

var cleanReportsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old run reports",
	RunE:  runCleanReports,
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(listReportsCmd)
	reportsCmd.AddCommand(cleanReportsCmd)

	reportsCmd.PersistentFlags().StringVar(&reportDataDir, "data-dir", "./data", "Base directory for run reports")
	cleanReportsCmd.Flags().IntVar(&olderThanDays, "older-than", 30, "Delete reports older than N days")
}

func runListReports(cmd *cobra.Command, args []string) error {
	st, err := store.NewFSStore(reportDataDir)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	infos, err := st.ListReports()
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(infos) == 0 {
		fmt.Println("No reports found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tPROBLEM\tSOLVER\tSOLVED\tCREATED")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
			info.RunID, info.Problem, info.Solver, info.Solved,
			info.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runCleanReports(cmd *cobra.Command, args []string) error {
	st, err := store.NewFSStore(reportDataDir)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	infos, err := st.ListReports()
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	deleted := 0
	for _, info := range infos {
		if info.CreatedAt.After(cutoff) {
			continue
		}
		if err := st.DeleteReport(info.RunID); err != nil {
			return fmt.Errorf("failed to delete report %s: %w", info.RunID, err)
		}
		deleted++
	}
	fmt.Printf("Deleted %d report(s) older than %d days.\n", deleted, olderThanDays)
	return nil
}
