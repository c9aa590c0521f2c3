package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetplan/app"
	"github.com/kilianp07/fleetplan/config"
	"github.com/kilianp07/fleetplan/infra/logger"
)

var (
	cfgPath string
	dataDir string
	outPath string
)

var rootCmd = &cobra.Command{
	Use:           "fleetplan",
	Short:         "Least-cost fleet transition planner",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "input tables: csv directory or xlsx workbook")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "solution file (csv, json or yaml)")
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logger.New("main").Errorf("%v", err)
	}
	return err
}

// loadConfig reads the configuration and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.Input.Path = dataDir
		cfg.Input.Format = ""
	}
	if outPath != "" {
		cfg.Output.Path = outPath
		cfg.Output.Format = ""
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "run %s: %s, cost %.2f, %d records written to %s\n",
		res.RunID, res.Status, res.Objective, len(res.Records), cfg.Output.Path)
	return err
}
