package planner

import (
	"fmt"

	"github.com/kilianp07/fleetplan/core/solver"
)

// available returns Σ Buy[v,y'≤y] − Σ Sell[v,y'<y] over the horizon.
func (m *Model) available(vehicleID string, year int) solver.Expr {
	e := solver.Expr{}
	for _, y := range m.Horizon.Years() {
		if y > year {
			break
		}
		cy := CohortYear{VehicleID: vehicleID, Year: y}
		if v, ok := m.Vars.Buy[cy]; ok {
			e.Add(v, 1)
		}
		if y < year {
			e.Add(m.Vars.Sell[cy], -1)
		}
	}
	return e
}

// fleet returns the units available across every cohort in year.
func (m *Model) fleet(year int) solver.Expr {
	e := solver.Expr{}
	for _, c := range m.Cohorts {
		e.AddExpr(m.available(c.ID, year), 1)
	}
	return e
}

// Units in use equal units held: Σ Use − available = 0.
func (b *Builder) addAvailability(m *Model) {
	for _, y := range b.horizon.Years() {
		for _, c := range m.Cohorts {
			e := m.Vars.useTotal(c.ID, y)
			e.AddExpr(m.available(c.ID, y), -1)
			m.addConstraint(FamilyAvailability, fmt.Sprintf("availability_%s_%d", c.ID, y), e, solver.Equal, 0)
		}
	}
}

// Sell − available ≤ 0.
func (b *Builder) addSellCeiling(m *Model) {
	for _, y := range b.horizon.Years() {
		for _, c := range m.Cohorts {
			e := solver.Expr{}
			e.Add(m.Vars.Sell[CohortYear{VehicleID: c.ID, Year: y}], 1)
			e.AddExpr(m.available(c.ID, y), -1)
			m.addConstraint(FamilySellCeiling, fmt.Sprintf("sell_ceiling_%s_%d", c.ID, y), e, solver.LessEq, 0)
		}
	}
}

func (b *Builder) addDemand(m *Model) {
	for _, k := range b.tables.DemandKeys() {
		if !b.horizon.Contains(k.Year) {
			continue
		}
		required := b.tables.Demand[k]
		cohorts := b.eligible(m, k.Size, k.Distance)
		if len(cohorts) == 0 {
			// Only zero demand reaches here; it holds trivially.
			continue
		}
		e := solver.Expr{}
		for _, c := range cohorts {
			for _, f := range m.fuels[c.ID] {
				uk := UseKey{VehicleID: c.ID, Fuel: f, Distance: k.Distance, Year: k.Year}
				e.Add(m.Vars.Use[uk], c.YearlyRange)
			}
		}
		name := fmt.Sprintf("demand_%d_%s_%s", k.Year, k.Size, k.Distance)
		m.addConstraint(FamilyDemand, name, e, solver.GreaterEq, required)
	}
}

func (b *Builder) addCarbon(m *Model) {
	for _, y := range b.horizon.Years() {
		e := solver.Expr{}
		for _, c := range m.Cohorts {
			for _, uk := range m.Vars.UsesOf(c.ID, y) {
				e.Add(m.Vars.Use[uk], m.emissionPerUnit(c.ID, uk.Fuel))
			}
		}
		m.addConstraint(FamilyCarbon, fmt.Sprintf("carbon_%d", y), e, solver.LessEq, b.tables.CarbonLimits[y])
	}
}

// emissionPerUnit is the yearly emission in kg of one unit of vehicleID
// running on fuel for its full yearly range.
func (m *Model) emissionPerUnit(vehicleID, fuel string) float64 {
	cons, _ := m.Tables.ConsumptionOf(vehicleID, fuel)
	return cons * m.Tables.Fuels[fuel].EmissionFactor * m.Tables.Vehicles[vehicleID].YearlyRange
}

// Every cohort in the horizon is bought at least once.
func (b *Builder) addAcquisition(m *Model) {
	for _, c := range m.Cohorts {
		cy := CohortYear{VehicleID: c.ID, Year: c.PurchaseYear}
		e := solver.Expr{}
		e.Add(m.Vars.Buy[cy], 1)
		m.addConstraint(FamilyAcquisition, fmt.Sprintf("acquisition_%s", c.ID), e, solver.GreaterEq, 1)
	}
}

// Cohorts reaching the end of their lifespan inside the horizon are sold
// by then: Σ Sell[py..min(py+L, end)] − Buy ≥ 0.
func (b *Builder) addLifespan(m *Model) {
	for _, c := range m.Cohorts {
		retire := c.PurchaseYear + b.lifespan
		if !b.horizon.Contains(retire) {
			continue
		}
		e := solver.Expr{}
		for y := c.PurchaseYear; y <= retire; y++ {
			e.Add(m.Vars.Sell[CohortYear{VehicleID: c.ID, Year: y}], 1)
		}
		e.Add(m.Vars.Buy[CohortYear{VehicleID: c.ID, Year: c.PurchaseYear}], -1)
		m.addConstraint(FamilyLifespan, fmt.Sprintf("lifespan_%s", c.ID), e, solver.GreaterEq, 0)
	}
}

// Σ Sell[·,y] − cap × fleet(y) ≤ 0.
func (b *Builder) addTurnover(m *Model) {
	for _, y := range b.horizon.Years() {
		e := solver.Expr{}
		for _, c := range m.Cohorts {
			e.Add(m.Vars.Sell[CohortYear{VehicleID: c.ID, Year: y}], 1)
		}
		e.AddExpr(m.fleet(y), -b.turnoverCap)
		m.addConstraint(FamilyTurnover, fmt.Sprintf("turnover_%d", y), e, solver.LessEq, 0)
	}
}

// A cohort is idle before its purchase year and from the end of its
// lifespan on. Inside the window the usage floor Σ Use ≥ 0 is implied by
// the variable bounds and is not emitted.
func (b *Builder) addUsageWindow(m *Model) {
	for _, y := range b.horizon.Years() {
		for _, c := range m.Cohorts {
			if c.InUseWindow(y, b.lifespan) {
				continue
			}
			e := m.Vars.useTotal(c.ID, y)
			if len(e) == 0 {
				continue
			}
			m.addConstraint(FamilyUsageWindow, fmt.Sprintf("usage_window_%s_%d", c.ID, y), e, solver.Equal, 0)
		}
	}
}
