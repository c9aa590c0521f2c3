package planner

import (
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/solver"
)

// Summarize aggregates the rounded solution per planning year. Fleet is
// the number of units held at the start of the year, before its sales.
func Summarize(m *Model) ([]model.YearSummary, error) {
	if !m.status.HasSolution() {
		return nil, &InfeasibleModelError{Status: m.status}
	}
	value := func(v solver.Var) float64 { return float64(m.count(v)) }

	years := m.Horizon.Years()
	out := make([]model.YearSummary, 0, len(years))
	for _, y := range years {
		s := model.YearSummary{Year: y, CarbonLimit: m.Tables.CarbonLimits[y]}
		for _, c := range m.Cohorts {
			cy := CohortYear{VehicleID: c.ID, Year: y}
			if v, ok := m.Vars.Buy[cy]; ok {
				s.Bought += m.count(v)
			}
			s.Sold += m.count(m.Vars.Sell[cy])
			s.Fleet += int(m.available(c.ID, y).Eval(value))
			for _, uk := range m.Vars.UsesOf(c.ID, y) {
				n := m.count(m.Vars.Use[uk])
				if n == 0 {
					continue
				}
				s.InUse += n
				s.DistanceKm += float64(n) * c.YearlyRange
				s.EmissionsKg += float64(n) * m.emissionPerUnit(c.ID, uk.Fuel)
			}
		}
		out = append(out, s)
	}
	return out, nil
}
