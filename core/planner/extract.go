package planner

import (
	"math"

	"github.com/kilianp07/fleetplan/core/solver"
)

// roundTolerance absorbs solver noise around integral values.
const roundTolerance = 1e-6

// Solve runs the solver and keeps its status for extraction. A status
// without a solution is reported as *InfeasibleModelError.
func (m *Model) Solve() (solver.Status, error) {
	st, err := m.Solver.Solve()
	m.status = st
	if err != nil {
		if st.HasSolution() {
			st = solver.StatusError
			m.status = st
		}
		return st, &InfeasibleModelError{Status: st, Err: err}
	}
	if !st.HasSolution() {
		return st, &InfeasibleModelError{Status: st}
	}
	return st, nil
}

// Status is the status of the last Solve.
func (m *Model) Status() solver.Status { return m.status }

// count returns the solver value of v rounded to the nearest integer.
// Values within roundTolerance of zero, or negative, count as zero.
func (m *Model) count(v solver.Var) int {
	x := m.Solver.Value(v)
	if x < roundTolerance {
		return 0
	}
	return int(math.Round(x))
}

// Extract reads the solved values back into plan records.
//
// For each year, size bucket and distance bucket it emits a Use record per
// eligible cohort and fuel with a positive count, or a single idle record
// when there is none. Buy and Sell records with positive counts follow for
// each year.
func Extract(m *Model) ([]Record, error) {
	if !m.status.HasSolution() {
		return nil, &InfeasibleModelError{Status: m.status}
	}
	years := m.Horizon.Years()
	sizes := m.Tables.SizeBuckets()
	buckets := m.Scale.Buckets()

	var out []Record
	for _, y := range years {
		for _, size := range sizes {
			for _, d := range buckets {
				used := false
				for _, c := range m.Cohorts {
					if c.SizeBucket != size || !m.Scale.Serves(c.DistanceBucket, d) {
						continue
					}
					for _, f := range m.fuels[c.ID] {
						v, ok := m.Vars.Use[UseKey{VehicleID: c.ID, Fuel: f, Distance: d, Year: y}]
						if !ok {
							continue
						}
						n := m.count(v)
						if n <= 0 {
							continue
						}
						out = append(out, Record{
							Year:               y,
							ID:                 c.ID,
							NumVehicles:        n,
							Type:               ActionUse,
							Fuel:               f,
							DistanceBucket:     d,
							DistancePerVehicle: km(c.YearlyRange),
						})
						used = true
					}
				}
				if !used {
					out = append(out, Record{
						Year:               y,
						Type:               ActionUse,
						DistanceBucket:     d,
						DistancePerVehicle: km(0),
					})
				}
			}
		}
	}

	for _, y := range years {
		for _, c := range m.Cohorts {
			cy := CohortYear{VehicleID: c.ID, Year: y}
			if v, ok := m.Vars.Buy[cy]; ok {
				if n := m.count(v); n > 0 {
					out = append(out, Record{Year: y, ID: c.ID, NumVehicles: n, Type: ActionBuy})
				}
			}
			if n := m.count(m.Vars.Sell[cy]); n > 0 {
				out = append(out, Record{Year: y, ID: c.ID, NumVehicles: n, Type: ActionSell})
			}
		}
	}
	return out, nil
}
