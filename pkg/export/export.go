package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/planner"
)

// Supported report formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Header is the column layout of the CSV plan.
var Header = []string{"Year", "ID", "Num_Vehicles", "Type", "Fuel", "Distance_bucket", "Distance_per_vehicle(km)"}

// Report is the document written in JSON and YAML formats.
type Report struct {
	RunID      string              `json:"run_id" yaml:"run_id"`
	Status     string              `json:"status" yaml:"status"`
	Objective  float64             `json:"objective" yaml:"objective"`
	Summary    []model.YearSummary `json:"summary" yaml:"summary"`
	Violations []planner.Violation `json:"violations,omitempty" yaml:"violations,omitempty"`
	Records    []planner.Record    `json:"records" yaml:"records"`
}

// NewReport collects the exported parts of a planning result.
func NewReport(res *planner.Result) Report {
	return Report{
		RunID:      res.RunID,
		Status:     res.Status.String(),
		Objective:  res.Objective,
		Summary:    res.Summary,
		Violations: res.Violations,
		Records:    res.Records,
	}
}

// Options tunes the CSV output.
type Options struct {
	// FillBlankDistance writes 0 instead of an empty distance on Buy and
	// Sell rows.
	FillBlankDistance bool `json:"fill_blank_distance"`
}

// WriteCSV writes the plan records to w, one row per record.
func WriteCSV(w io.Writer, recs []planner.Record, o Options) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range recs {
		dist := ""
		switch {
		case r.DistancePerVehicle != nil:
			dist = strconv.FormatFloat(*r.DistancePerVehicle, 'f', -1, 64)
		case o.FillBlankDistance:
			dist = "0"
		}
		rec := []string{
			strconv.Itoa(r.Year),
			r.ID,
			strconv.Itoa(r.NumVehicles),
			string(r.Type),
			r.Fuel,
			r.DistanceBucket,
			dist,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the report to w in indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes the report to w in YAML.
func WriteYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// Write dispatches on format.
func Write(w io.Writer, format string, r Report, o Options) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, r.Records, o)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML, "yml":
		return WriteYAML(w, r)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

// WriteFile writes the report to path, creating parent directories.
func WriteFile(path, format string, r Report, o Options) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, format, r, o)
}
