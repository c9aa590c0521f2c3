// Package loader reads the planning tables from a directory of CSV files
// or from an XLSX workbook with one sheet per table.
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/kilianp07/fleetplan/core/logger"
	"github.com/kilianp07/fleetplan/core/model"
)

// Supported input formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config selects the input source.
type Config struct {
	// Path is a directory for csv and a workbook file for xlsx.
	Path   string `json:"path"`
	Format string `json:"format"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Format == "" {
		c.Format = FormatCSV
		if strings.HasSuffix(strings.ToLower(c.Path), ".xlsx") {
			c.Format = FormatXLSX
		}
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("input path is required")
	}
	switch c.Format {
	case FormatCSV, FormatXLSX:
		return nil
	default:
		return fmt.Errorf("unsupported input format %q", c.Format)
	}
}

// Loader reads the domain tables from a source.
type Loader interface {
	Load(ctx context.Context) (*model.Tables, error)
}

// New returns the loader matching cfg.Format.
func New(cfg Config, log logger.Logger) (Loader, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logger.OrNop(log)
	if cfg.Format == FormatXLSX {
		return &XLSXLoader{Path: cfg.Path, logger: log}, nil
	}
	return &CSVLoader{Dir: cfg.Path, logger: log}, nil
}

// source yields the raw rows of a table, header first. found is false when
// the table does not exist in the source.
type source func(name string) (rows [][]string, found bool, err error)

// load fills tables from every known table of src.
func load(ctx context.Context, src source, log logger.Logger) (*model.Tables, error) {
	t := model.NewTables()
	for _, spec := range tableSpecs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, found, err := src(spec.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", spec.name, err)
		}
		if !found {
			if spec.optional {
				log.Debugf("optional table %s not found", spec.name)
				continue
			}
			return nil, &model.SchemaError{Table: spec.name, Reason: "table not found"}
		}
		n, err := spec.parse(t, rows)
		if err != nil {
			return nil, err
		}
		log.Debugf("loaded %d rows from %s", n, spec.name)
	}
	log.Infow("tables loaded", map[string]any{
		"vehicles": len(t.Vehicles),
		"fuels":    len(t.Fuels),
		"demand":   len(t.Demand),
	})
	return t, nil
}
