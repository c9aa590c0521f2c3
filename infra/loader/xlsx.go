package loader

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/fleetplan/core/logger"
	"github.com/kilianp07/fleetplan/core/model"
)

// XLSXLoader reads one sheet per table, named after the table, from a
// workbook.
type XLSXLoader struct {
	Path   string
	logger logger.Logger
}

// NewXLSXLoader returns a loader over the workbook at path.
func NewXLSXLoader(path string, log logger.Logger) *XLSXLoader {
	return &XLSXLoader{Path: path, logger: logger.OrNop(log)}
}

func (l *XLSXLoader) Load(ctx context.Context) (*model.Tables, error) {
	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.OrNop(l.logger).Warnf("close workbook: %v", cerr)
		}
	}()
	read := func(name string) ([][]string, bool, error) {
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			return nil, false, err
		}
		if idx < 0 {
			return nil, false, nil
		}
		rows, err := f.GetRows(name)
		return rows, true, err
	}
	return load(ctx, read, logger.OrNop(l.logger))
}
