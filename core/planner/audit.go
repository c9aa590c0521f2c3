package planner

import (
	"fmt"
	"math"

	"github.com/kilianp07/fleetplan/core/solver"
)

// Violation is a constraint that the rounded solution does not satisfy.
type Violation struct {
	Family string  `json:"family" yaml:"family"`
	Name   string  `json:"name" yaml:"name"`
	LHS    float64 `json:"lhs" yaml:"lhs"`
	Sense  string  `json:"sense" yaml:"sense"`
	RHS    float64 `json:"rhs" yaml:"rhs"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %.6g %s %.6g does not hold", v.Name, v.LHS, v.Sense, v.RHS)
}

// Audit re-evaluates every constraint of the model on the rounded solution
// values and checks that no cohort ever holds a negative number of units.
// An empty result means the extracted plan is consistent.
func Audit(m *Model) ([]Violation, error) {
	if !m.status.HasSolution() {
		return nil, &InfeasibleModelError{Status: m.status}
	}
	value := func(v solver.Var) float64 { return float64(m.count(v)) }

	var out []Violation
	for _, r := range m.rows {
		lhs := r.expr.Eval(value)
		tol := roundTolerance * math.Max(1, math.Abs(r.rhs))
		if !r.sense.Holds(lhs, r.rhs, tol) {
			out = append(out, Violation{Family: r.family, Name: r.name, LHS: lhs, Sense: r.sense.String(), RHS: r.rhs})
		}
	}
	for _, y := range m.Horizon.Years() {
		for _, c := range m.Cohorts {
			if held := m.available(c.ID, y).Eval(value); held < 0 {
				out = append(out, Violation{
					Family: FamilyAvailability,
					Name:   fmt.Sprintf("held_%s_%d", c.ID, y),
					LHS:    held,
					Sense:  solver.GreaterEq.String(),
				})
			}
		}
	}
	return out, nil
}
