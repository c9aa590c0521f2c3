package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetplan/core/history"
)

var (
	historySince  time.Duration
	historyStatus string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored planning runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only runs newer than this duration (e.g. 24h)")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "only runs with this solver status")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Backend == history.BackendNone {
		return fmt.Errorf("no history backend configured")
	}
	store, err := history.New(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	q := history.RunQuery{Status: historyStatus, Limit: historyLimit}
	if historySince > 0 {
		q.Start = time.Now().Add(-historySince)
	}
	runs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTIME\tSTATUS\tCOST\tVARS\tCONSTRAINTS\tVIOLATIONS\tERROR")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%d\t%d\t%s\n",
			r.RunID, r.Timestamp.Format(time.RFC3339), r.Status, r.Objective,
			r.Variables, r.Constraints, r.Violations, r.Error)
	}
	return w.Flush()
}
