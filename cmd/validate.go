package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetplan/core/planner"
	"github.com/kilianp07/fleetplan/core/solver"
	"github.com/kilianp07/fleetplan/infra/loader"
	"github.com/kilianp07/fleetplan/infra/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the tables and build the model without solving it",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ld, err := loader.New(cfg.Input, logger.New("loader"))
	if err != nil {
		return err
	}
	tables, err := ld.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	p, err := planner.New(cfg.Planner, logger.New("planner"), nil)
	if err != nil {
		return err
	}
	m, err := p.Build(tables, solver.NewRecorder())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := m.Stats
	fmt.Fprintf(out, "horizon: %d-%d, %d cohorts\n", m.Horizon.Start(), m.Horizon.End(), len(m.Cohorts))
	fmt.Fprintf(out, "variables: %d (buy %d, use %d, sell %d)\n", st.Variables(), st.BuyVars, st.UseVars, st.SellVars)
	fmt.Fprintf(out, "constraints: %d\n", st.Constraints)
	families := make([]string, 0, len(st.Families))
	for f := range st.Families {
		families = append(families, f)
	}
	sort.Strings(families)
	for _, f := range families {
		fmt.Fprintf(out, "  %-14s %d\n", f, st.Families[f])
	}
	return nil
}
