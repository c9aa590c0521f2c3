package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kilianp07/fleetplan/core/logger"
	"github.com/kilianp07/fleetplan/core/model"
)

// CSVLoader reads <table>.csv files from Dir.
type CSVLoader struct {
	Dir    string
	logger logger.Logger
}

// NewCSVLoader returns a loader over dir.
func NewCSVLoader(dir string, log logger.Logger) *CSVLoader {
	return &CSVLoader{Dir: dir, logger: logger.OrNop(log)}
}

func (l *CSVLoader) Load(ctx context.Context) (*model.Tables, error) {
	return load(ctx, l.read, logger.OrNop(l.logger))
}

func (l *CSVLoader) read(name string) ([][]string, bool, error) {
	f, err := os.Open(filepath.Join(l.Dir, name+".csv"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, true, err
	}
	return rows, true, nil
}
