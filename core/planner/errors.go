package planner

import (
	"errors"
	"fmt"

	"github.com/kilianp07/fleetplan/core/solver"
)

// ErrInfeasible matches every *InfeasibleModelError with errors.Is.
var ErrInfeasible = errors.New("model has no usable solution")

// InfeasibleModelError is returned when the solver ends without a solution:
// infeasible, unbounded or failed.
type InfeasibleModelError struct {
	Status solver.Status
	Err    error
}

func (e *InfeasibleModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver status %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("solver status %s", e.Status)
}

func (e *InfeasibleModelError) Unwrap() error { return e.Err }

func (e *InfeasibleModelError) Is(target error) bool { return target == ErrInfeasible }
