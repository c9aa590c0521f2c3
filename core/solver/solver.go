package solver

import (
	"errors"
	"math"
	"sort"
)

// Inf is the upper bound used for unbounded variables.
var Inf = math.Inf(1)

// Var is an opaque handle to a decision variable owned by a Solver.
type Var int

// Sense is the relation of a linear constraint.
type Sense int

const (
	LessEq Sense = iota
	Equal
	GreaterEq
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case Equal:
		return "="
	case GreaterEq:
		return ">="
	default:
		return "?"
	}
}

// Holds reports whether lhs sense rhs is satisfied within tol.
func (s Sense) Holds(lhs, rhs, tol float64) bool {
	switch s {
	case LessEq:
		return lhs <= rhs+tol
	case GreaterEq:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}

// Status is the terminal state reported by Solve.
type Status int

const (
	StatusNotSolved Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusUnbounded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	case StatusError:
		return "ERROR"
	default:
		return "NOT_SOLVED"
	}
}

// HasSolution reports whether variable values can be read.
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// ErrNoSolution is returned when values are requested without a solution.
var ErrNoSolution = errors.New("solver: no solution available")

// Expr is a linear expression mapping variables to coefficients.
type Expr map[Var]float64

// Add accumulates coef onto v.
func (e Expr) Add(v Var, coef float64) {
	e[v] += coef
}

// AddExpr accumulates scale*o into e.
func (e Expr) AddExpr(o Expr, scale float64) {
	for v, c := range o {
		e[v] += scale * c
	}
}

// Vars returns the variables of e in ascending handle order, skipping zero
// coefficients.
func (e Expr) Vars() []Var {
	out := make([]Var, 0, len(e))
	for v, c := range e {
		if c != 0 {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Eval computes the expression value using value.
func (e Expr) Eval(value func(Var) float64) float64 {
	var sum float64
	for _, v := range e.Vars() {
		sum += e[v] * value(v)
	}
	return sum
}

// Solver is the contract of a mixed integer linear programming backend.
// Variables and constraints are added once; Solve blocks until a terminal
// status is reached.
type Solver interface {
	// NewIntVar creates an integer variable with the given bounds.
	NewIntVar(name string, lower, upper float64) Var
	// AddConstraint adds expr sense rhs.
	AddConstraint(name string, expr Expr, sense Sense, rhs float64)
	// SetObjectiveCoefficient sets (not adds) the objective coefficient of v.
	SetObjectiveCoefficient(v Var, coef float64)
	SetMinimize()
	Solve() (Status, error)
	// Value returns the solved value of v. It is only meaningful when the
	// last status HasSolution.
	Value(v Var) float64
	ObjectiveValue() float64
	NumVariables() int
	NumConstraints() int
}
