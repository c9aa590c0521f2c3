package planner

import (
	"fmt"
	"sort"

	"github.com/kilianp07/fleetplan/core/logger"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/solver"
)

// Constraint families.
const (
	FamilyAvailability = "availability"
	FamilySellCeiling  = "sell_ceiling"
	FamilyDemand       = "demand"
	FamilyCarbon       = "carbon"
	FamilyAcquisition  = "acquisition"
	FamilyLifespan     = "lifespan"
	FamilyTurnover     = "turnover"
	FamilyUsageWindow  = "usage_window"
)

// BuildStats counts what a build added to the solver.
type BuildStats struct {
	BuyVars     int
	SellVars    int
	UseVars     int
	Constraints int
	Families    map[string]int
}

// Variables returns the total number of decision variables.
func (s BuildStats) Variables() int { return s.BuyVars + s.SellVars + s.UseVars }

// Builder translates domain tables into an integer program on a solver.
type Builder struct {
	tables      *model.Tables
	horizon     Horizon
	scale       model.DistanceScale
	lifespan    int
	turnoverCap float64
	log         logger.Logger
}

// NewBuilder validates cfg and returns a builder over tables.
func NewBuilder(cfg Config, tables *model.Tables, log logger.Logger) (*Builder, error) {
	if tables == nil {
		return nil, fmt.Errorf("planner: nil tables")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	scale, err := cfg.Scale()
	if err != nil {
		return nil, err
	}
	return &Builder{
		tables:      tables,
		horizon:     cfg.Horizon(),
		scale:       scale,
		lifespan:    cfg.LifespanYears,
		turnoverCap: cfg.TurnoverCap,
		log:         logger.OrNop(log),
	}, nil
}

// Model is a built program together with the registries needed to read
// its solution back.
type Model struct {
	Solver  solver.Solver
	Vars    *Variables
	Tables  *model.Tables
	Horizon Horizon
	Scale   model.DistanceScale
	// Cohorts are the vehicles bought within the horizon, sorted by id.
	Cohorts []model.Vehicle
	// Objective holds the accumulated cost coefficients.
	Objective   solver.Expr
	Lifespan    int
	TurnoverCap float64
	Stats       BuildStats

	fuels  map[string][]string
	rows   []row
	status solver.Status
}

// row keeps a copy of an emitted constraint for auditing.
type row struct {
	family string
	name   string
	expr   solver.Expr
	sense  solver.Sense
	rhs    float64
}

// Build checks the tables against the horizon and scale, then creates every
// variable, constraint and objective term on s. Nothing is added to s when
// a schema check fails.
func (b *Builder) Build(s solver.Solver) (*Model, error) {
	if s == nil {
		return nil, fmt.Errorf("planner: nil solver")
	}
	m := &Model{
		Solver:      s,
		Vars:        newVariables(),
		Tables:      b.tables,
		Horizon:     b.horizon,
		Scale:       b.scale,
		Lifespan:    b.lifespan,
		TurnoverCap: b.turnoverCap,
		Stats:       BuildStats{Families: make(map[string]int)},
		fuels:       make(map[string][]string),
		status:      solver.StatusNotSolved,
	}
	for _, id := range b.tables.VehicleIDs() {
		v := b.tables.Vehicles[id]
		if !b.horizon.Contains(v.PurchaseYear) {
			b.log.Debugf("cohort %s bought in %d is outside the horizon, skipped", id, v.PurchaseYear)
			continue
		}
		m.Cohorts = append(m.Cohorts, v)
		m.fuels[id] = b.tables.CompatibleFuels(id)
	}
	if err := b.checkSchema(m); err != nil {
		return nil, err
	}

	b.createVariables(m)
	b.addAvailability(m)
	b.addSellCeiling(m)
	b.addDemand(m)
	b.addCarbon(m)
	b.addAcquisition(m)
	b.addLifespan(m)
	b.addTurnover(m)
	b.addUsageWindow(m)
	b.setObjective(m)

	b.log.Infow("model built", map[string]any{
		"cohorts":     len(m.Cohorts),
		"variables":   m.Stats.Variables(),
		"constraints": m.Stats.Constraints,
		"years":       b.horizon.Len(),
	})
	return m, nil
}

func (b *Builder) checkSchema(m *Model) error {
	keys := make([]model.VehicleFuel, 0, len(b.tables.Consumption))
	for k := range b.tables.Consumption {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].VehicleID != keys[j].VehicleID {
			return keys[i].VehicleID < keys[j].VehicleID
		}
		return keys[i].Fuel < keys[j].Fuel
	})
	for _, k := range keys {
		if _, ok := b.tables.Vehicles[k.VehicleID]; !ok {
			return &model.SchemaError{Table: model.TableVehicleFuels, Key: k.VehicleID, Reason: "unknown vehicle"}
		}
		if _, ok := b.tables.Fuels[k.Fuel]; !ok {
			return &model.SchemaError{Table: model.TableVehicleFuels, Key: k.VehicleID + "/" + k.Fuel, Reason: "unknown fuel"}
		}
	}

	for _, c := range m.Cohorts {
		if !b.scale.Contains(c.DistanceBucket) {
			return &model.SchemaError{Table: model.TableVehicles, Key: c.ID,
				Reason: fmt.Sprintf("distance bucket %q is not in the scale", c.DistanceBucket)}
		}
	}

	for _, y := range b.horizon.Years() {
		if _, ok := b.tables.CarbonLimits[y]; !ok {
			return &model.SchemaError{Table: model.TableCarbonLimits, Key: fmt.Sprint(y), Reason: "missing limit for planning year"}
		}
	}

	for _, k := range b.tables.DemandKeys() {
		if !b.horizon.Contains(k.Year) {
			continue
		}
		if !b.scale.Contains(k.Distance) {
			return &model.SchemaError{Table: model.TableDemand, Key: k.String(),
				Reason: fmt.Sprintf("distance bucket %q is not in the scale", k.Distance)}
		}
		// A zero requirement with no eligible cohort holds trivially and is
		// accepted; any positive one cannot be served.
		if b.tables.Demand[k] > 0 && len(b.eligible(m, k.Size, k.Distance)) == 0 {
			return &model.SchemaError{Table: model.TableDemand, Key: k.String(), Reason: "no eligible cohort"}
		}
	}
	return nil
}

// eligible returns the cohorts able to serve demand of the given size and
// distance bucket with at least one compatible fuel.
func (b *Builder) eligible(m *Model, size, distance string) []model.Vehicle {
	var out []model.Vehicle
	for _, c := range m.Cohorts {
		if c.SizeBucket != size || !b.scale.Serves(c.DistanceBucket, distance) {
			continue
		}
		if len(m.fuels[c.ID]) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (b *Builder) createVariables(m *Model) {
	s := m.Solver
	for _, y := range b.horizon.Years() {
		for _, c := range m.Cohorts {
			cy := CohortYear{VehicleID: c.ID, Year: y}
			if y == c.PurchaseYear {
				m.Vars.Buy[cy] = s.NewIntVar(buyName(cy), 0, solver.Inf)
				m.Stats.BuyVars++
			}
			for _, f := range m.fuels[c.ID] {
				for _, d := range b.scale.Buckets() {
					k := UseKey{VehicleID: c.ID, Fuel: f, Distance: d, Year: y}
					m.Vars.addUse(k, s.NewIntVar(useName(k), 0, solver.Inf))
					m.Stats.UseVars++
				}
			}
			m.Vars.Sell[cy] = s.NewIntVar(sellName(cy), 0, solver.Inf)
			m.Stats.SellVars++
		}
	}
	b.log.Debugf("created %d buy, %d use and %d sell variables",
		m.Stats.BuyVars, m.Stats.UseVars, m.Stats.SellVars)
}

func (m *Model) addConstraint(family, name string, e solver.Expr, sense solver.Sense, rhs float64) {
	m.Solver.AddConstraint(name, e, sense, rhs)
	m.rows = append(m.rows, row{family: family, name: name, expr: e, sense: sense, rhs: rhs})
	m.Stats.Constraints++
	m.Stats.Families[family]++
}
