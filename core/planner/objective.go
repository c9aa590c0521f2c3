package planner

import "github.com/kilianp07/fleetplan/core/solver"

// setObjective accumulates every cost term per variable and hands the
// totals to the solver in variable order.
//
// Cost terms:
//   - purchase cost on Buy;
//   - fuel cost (consumption × unit cost × yearly range) on Use;
//   - maintenance and insurance, as percentages of the purchase cost, on Use
//     for years listed in the cost profile table.
func (b *Builder) setObjective(m *Model) {
	obj := solver.Expr{}
	for _, y := range b.horizon.Years() {
		profile, hasProfile := b.tables.CostProfiles[y]
		for _, c := range m.Cohorts {
			if v, ok := m.Vars.Buy[CohortYear{VehicleID: c.ID, Year: y}]; ok {
				obj.Add(v, c.PurchaseCost)
			}
			upkeep := 0.0
			if hasProfile {
				upkeep = (profile.MaintenancePct + profile.InsurancePct) / 100 * c.PurchaseCost
			}
			for _, uk := range m.Vars.UsesOf(c.ID, y) {
				cons, _ := b.tables.ConsumptionOf(c.ID, uk.Fuel)
				fuelCost := cons * b.tables.Fuels[uk.Fuel].UnitCost * c.YearlyRange
				obj.Add(m.Vars.Use[uk], fuelCost+upkeep)
			}
		}
	}
	for _, v := range obj.Vars() {
		m.Solver.SetObjectiveCoefficient(v, obj[v])
	}
	m.Solver.SetMinimize()
	m.Objective = obj
}

// Cost evaluates the objective on the rounded solution values.
func (m *Model) Cost() float64 {
	return m.Objective.Eval(func(v solver.Var) float64 { return float64(m.count(v)) })
}
