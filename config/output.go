package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kilianp07/fleetplan/pkg/export"
)

// OutputConfig defines where and how the solution is written.
type OutputConfig struct {
	// Path is the solution file; the format follows its extension unless set.
	Path   string `json:"path"`
	Format string `json:"format"`
	// ChartPath, when set, receives an HTML chart of the plan.
	ChartPath string `json:"chart_path"`
	// FillBlankDistance writes 0 instead of a blank distance on Buy and Sell rows.
	FillBlankDistance bool `json:"fill_blank_distance"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "solution.csv"
	}
	if c.Format == "" {
		switch strings.ToLower(filepath.Ext(c.Path)) {
		case ".json":
			c.Format = export.FormatJSON
		case ".yaml", ".yml":
			c.Format = export.FormatYAML
		default:
			c.Format = export.FormatCSV
		}
	}
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	switch c.Format {
	case export.FormatCSV, export.FormatJSON, export.FormatYAML:
	default:
		return fmt.Errorf("unknown output format %s", c.Format)
	}
	if c.Path == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// Options returns the writer options.
func (c OutputConfig) Options() export.Options {
	return export.Options{FillBlankDistance: c.FillBlankDistance}
}
