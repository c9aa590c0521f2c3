package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/fleetplan/core/model"
)

// column lists the accepted header names of a field, compared after
// normalizeHeader.
type column struct {
	key   string
	names []string
}

type tableSpec struct {
	name     string
	columns  []column
	optional bool
	apply    func(t *model.Tables, r record) error
}

var tableSpecs = []tableSpec{
	{
		name: model.TableVehicles,
		columns: []column{
			{"id", []string{"id"}},
			{"vehicle", []string{"vehicle", "drivetrain"}},
			{"size", []string{"size", "size bucket"}},
			{"distance", []string{"distance", "distance bucket"}},
			{"cost", []string{"cost", "purchase cost"}},
			{"range", []string{"yearly range", "yearly_range"}},
		},
		apply: func(t *model.Tables, r record) error {
			cost, err := r.float("cost")
			if err != nil {
				return err
			}
			rng, err := r.float("range")
			if err != nil {
				return err
			}
			v, err := model.NewVehicle(r.str("id"), r.str("vehicle"), r.str("size"), r.str("distance"), cost, rng)
			if err != nil {
				return err
			}
			return t.AddVehicle(v)
		},
	},
	{
		name: model.TableFuels,
		columns: []column{
			{"fuel", []string{"fuel"}},
			{"emissions", []string{"emissions", "emission factor"}},
			{"cost", []string{"cost", "unit cost"}},
			{"uncertainty", []string{"cost uncertainty"}},
		},
		apply: func(t *model.Tables, r record) error {
			ef, err := r.float("emissions")
			if err != nil {
				return err
			}
			cost, err := r.float("cost")
			if err != nil {
				return err
			}
			unc, err := r.optionalFloat("uncertainty")
			if err != nil {
				return err
			}
			return t.AddFuel(model.Fuel{Name: r.str("fuel"), EmissionFactor: ef, UnitCost: cost, CostUncertainty: unc})
		},
	},
	{
		name: model.TableVehicleFuels,
		columns: []column{
			{"id", []string{"id"}},
			{"fuel", []string{"fuel"}},
			{"consumption", []string{"consumption"}},
		},
		apply: func(t *model.Tables, r record) error {
			c, err := r.float("consumption")
			if err != nil {
				return err
			}
			return t.SetConsumption(r.str("id"), r.str("fuel"), c)
		},
	},
	{
		name: model.TableDemand,
		columns: []column{
			{"year", []string{"year"}},
			{"size", []string{"size"}},
			{"distance", []string{"distance"}},
			{"demand", []string{"demand"}},
		},
		apply: func(t *model.Tables, r record) error {
			y, err := r.year("year")
			if err != nil {
				return err
			}
			km, err := r.float("demand")
			if err != nil {
				return err
			}
			return t.SetDemand(model.DemandKey{Year: y, Size: r.str("size"), Distance: r.str("distance")}, km)
		},
	},
	{
		name: model.TableCarbonLimits,
		columns: []column{
			{"year", []string{"year"}},
			{"limit", []string{"carbon emission co2/kg", "carbon emission", "carbon limit"}},
		},
		apply: func(t *model.Tables, r record) error {
			y, err := r.year("year")
			if err != nil {
				return err
			}
			kg, err := r.float("limit")
			if err != nil {
				return err
			}
			t.SetCarbonLimit(y, kg)
			return nil
		},
	},
	{
		name:     model.TableCostProfiles,
		optional: true,
		columns: []column{
			{"year", []string{"end of year", "year"}},
			{"resale", []string{"resale value %", "resale value"}},
			{"insurance", []string{"insurance cost %", "insurance cost"}},
			{"maintenance", []string{"maintenance cost %", "maintenance cost"}},
		},
		apply: func(t *model.Tables, r record) error {
			y, err := r.year("year")
			if err != nil {
				return err
			}
			var p model.CostProfile
			if p.ResalePct, err = r.optionalFloat("resale"); err != nil {
				return err
			}
			if p.InsurancePct, err = r.float("insurance"); err != nil {
				return err
			}
			if p.MaintenancePct, err = r.float("maintenance"); err != nil {
				return err
			}
			return t.SetCostProfile(y, p)
		},
	},
}

// normalizeHeader lowercases h and drops a byte order mark and any
// parenthesized unit suffix: "Cost ($/unit_fuel)" becomes "cost".
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	if i := strings.Index(h, "("); i >= 0 {
		h = h[:i]
	}
	return strings.ToLower(strings.TrimSpace(h))
}

// parse maps the header of rows onto the table's columns and applies every
// data row. Blank rows are skipped.
func (s tableSpec) parse(t *model.Tables, rows [][]string) (int, error) {
	if len(rows) == 0 {
		return 0, &model.SchemaError{Table: s.name, Reason: "missing header"}
	}
	index := make(map[string]int, len(s.columns))
	for i, h := range rows[0] {
		name := normalizeHeader(h)
		for _, c := range s.columns {
			if _, done := index[c.key]; done {
				continue
			}
			for _, n := range c.names {
				if name == n {
					index[c.key] = i
				}
			}
		}
	}

	n := 0
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		r := record{table: s.name, line: i + 2, cells: cells, index: index}
		if err := s.apply(t, r); err != nil {
			return n, fmt.Errorf("%s line %d: %w", s.name, r.line, err)
		}
		n++
	}
	return n, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// record is one data row with header-resolved accessors.
type record struct {
	table string
	line  int
	cells []string
	index map[string]int
}

func (r record) str(key string) string {
	i, ok := r.index[key]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r record) float(key string) (float64, error) {
	if _, ok := r.index[key]; !ok {
		return 0, &model.SchemaError{Table: r.table, Key: key, Reason: "missing column"}
	}
	s := strings.TrimSuffix(strings.ReplaceAll(r.str(key), ",", ""), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &model.SchemaError{Table: r.table, Key: key, Reason: fmt.Sprintf("invalid number %q", r.str(key))}
	}
	return v, nil
}

func (r record) optionalFloat(key string) (float64, error) {
	if r.str(key) == "" {
		return 0, nil
	}
	return r.float(key)
}

// year accepts integral values written as "2023" or "2023.0".
func (r record) year(key string) (int, error) {
	v, err := r.float(key)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || v <= 0 {
		return 0, &model.SchemaError{Table: r.table, Key: key, Reason: fmt.Sprintf("invalid year %q", r.str(key))}
	}
	return int(v), nil
}
