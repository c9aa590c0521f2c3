package gonum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetplan/core/factory"
	"github.com/kilianp07/fleetplan/core/solver"
)

func newSolver(t *testing.T, cfg Config) *Solver {
	t.Helper()
	s, err := New(cfg, nil)
	require.NoError(t, err)
	return s
}

func expr(terms map[solver.Var]float64) solver.Expr {
	e := solver.Expr{}
	for v, c := range terms {
		e.Add(v, c)
	}
	return e
}

func TestSolve_BranchesToIntegers(t *testing.T) {
	s := newSolver(t, Config{})
	x := s.NewIntVar("x", 0, solver.Inf)
	y := s.NewIntVar("y", 0, solver.Inf)
	s.AddConstraint("cap", expr(map[solver.Var]float64{x: 2, y: 2}), solver.LessEq, 5)
	s.SetObjectiveCoefficient(x, 1)
	s.SetObjectiveCoefficient(y, 1)
	s.SetMaximize()

	st, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, st)
	assert.InDelta(t, 2.0, s.ObjectiveValue(), 1e-9)
	assert.InDelta(t, 2.0, s.Value(x)+s.Value(y), 1e-9)
	assert.Greater(t, s.Nodes(), 1)
}

func TestSolve_Minimize(t *testing.T) {
	s := newSolver(t, Config{})
	x := s.NewIntVar("x", 0, solver.Inf)
	y := s.NewIntVar("y", 0, solver.Inf)
	s.AddConstraint("demand", expr(map[solver.Var]float64{x: 500, y: 300}), solver.GreaterEq, 1100)
	s.SetObjectiveCoefficient(x, 100)
	s.SetObjectiveCoefficient(y, 70)
	s.SetMinimize()

	st, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, st)
	// x=1,y=2 costs 240, below 2x+1y = 270, 3x = 300 and 4y = 280
	assert.InDelta(t, 240.0, s.ObjectiveValue(), 1e-6)
	assert.Equal(t, 1.0, s.Value(x))
	assert.Equal(t, 2.0, s.Value(y))
}

func TestSolve_Equality(t *testing.T) {
	s := newSolver(t, Config{})
	x := s.NewIntVar("x", 0, solver.Inf)
	y := s.NewIntVar("y", 0, solver.Inf)
	sum := expr(map[solver.Var]float64{x: 1, y: 1})
	s.AddConstraint("sum", sum, solver.Equal, 3)
	s.AddConstraint("sum_again", sum, solver.Equal, 3)
	s.SetObjectiveCoefficient(x, 1)
	s.SetObjectiveCoefficient(y, 2)
	s.SetMinimize()

	st, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, st)
	assert.Equal(t, 3.0, s.Value(x))
	assert.Equal(t, 0.0, s.Value(y))
	assert.InDelta(t, 3.0, s.ObjectiveValue(), 1e-9)
}

// One cohort held for a single year: a zero right-hand-side equality ties
// the units in use to the units bought.
func TestSolve_DegenerateEqualities(t *testing.T) {
	s := newSolver(t, Config{})
	buy := s.NewIntVar("buy", 0, solver.Inf)
	sell := s.NewIntVar("sell", 0, solver.Inf)
	use := make([]solver.Var, 4)
	for i := range use {
		use[i] = s.NewIntVar("use", 0, solver.Inf)
		s.SetObjectiveCoefficient(use[i], 5)
	}
	held := solver.Expr{}
	for _, u := range use {
		held.Add(u, 1)
	}
	held.Add(buy, -1)
	s.AddConstraint("availability", held, solver.Equal, 0)
	s.AddConstraint("sell_ceiling", expr(map[solver.Var]float64{sell: 1, buy: -1}), solver.LessEq, 0)
	s.AddConstraint("demand", expr(map[solver.Var]float64{use[0]: 500}), solver.GreaterEq, 1000)
	s.AddConstraint("acquisition", expr(map[solver.Var]float64{buy: 1}), solver.GreaterEq, 1)
	s.AddConstraint("turnover", expr(map[solver.Var]float64{sell: 1, buy: -0.2}), solver.LessEq, 0)
	s.SetObjectiveCoefficient(buy, 100)
	s.SetMinimize()

	st, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, st)
	assert.InDelta(t, 210.0, s.ObjectiveValue(), 1e-6)
	assert.Equal(t, 2.0, s.Value(buy))
	assert.Equal(t, 2.0, s.Value(use[0]))
	assert.Equal(t, 0.0, s.Value(sell))
}

func TestRelax_ZeroRightHandSides(t *testing.T) {
	rows := []row{
		{terms: []term{{col: 0, coef: 1}, {col: 1, coef: -1}}, sense: solver.Equal},
		{terms: []term{{col: 1, coef: 1}}, sense: solver.GreaterEq},
		{terms: []term{{col: 1, coef: -1}}, sense: solver.LessEq, rhs: -2},
	}
	var (
		f   float64
		x   []float64
		err error
	)
	require.NotPanics(t, func() { f, x, err = relax(rows, []float64{1, 1}, DefaultTolerance) })
	require.NoError(t, err)
	assert.InDelta(t, 4.0, f, 1e-9)
	assert.InDelta(t, 2.0, x[0], 1e-9)
	assert.InDelta(t, 2.0, x[1], 1e-9)
}

func TestSolve_Bounds(t *testing.T) {
	s := newSolver(t, Config{})
	x := s.NewIntVar("x", 0, 3)
	y := s.NewIntVar("y", 1.5, solver.Inf)
	s.SetObjectiveCoefficient(x, -1)
	s.SetObjectiveCoefficient(y, 1)
	s.SetMinimize()

	st, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, st)
	assert.Equal(t, 3.0, s.Value(x))
	assert.Equal(t, 2.0, s.Value(y))
}

func TestSolve_Infeasible(t *testing.T) {
	s := newSolver(t, Config{})
	x := s.NewIntVar("x", 0, solver.Inf)
	s.AddConstraint("low", expr(map[solver.Var]float64{x: 1}), solver.GreaterEq, 2)
	s.AddConstraint("high", expr(map[solver.Var]float64{x: 1}), solver.LessEq, 1)
	s.SetMinimize()

	st, err := s.Solve()
	assert.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, st)
	assert.Zero(t, s.Value(x))
	assert.Zero(t, s.ObjectiveValue())
}

func TestSolve_IntegerInfeasible(t *testing.T) {
	s := newSolver(t, Config{})
	x := s.NewIntVar("x", 0, solver.Inf)
	s.AddConstraint("low", expr(map[solver.Var]float64{x: 2}), solver.GreaterEq, 1)
	s.AddConstraint("high", expr(map[solver.Var]float64{x: 2}), solver.LessEq, 1.5)

	st, err := s.Solve()
	assert.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, st)
}

func TestSolve_EmptyRowInfeasible(t *testing.T) {
	s := newSolver(t, Config{})
	s.NewIntVar("x", 0, solver.Inf)
	s.AddConstraint("impossible", solver.Expr{}, solver.GreaterEq, 1)

	st, err := s.Solve()
	assert.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, st)
}

func TestSolve_Unbounded(t *testing.T) {
	s := newSolver(t, Config{})
	x := s.NewIntVar("x", 0, solver.Inf)
	s.SetObjectiveCoefficient(x, -1)
	s.SetMinimize()

	st, err := s.Solve()
	assert.NoError(t, err)
	assert.Equal(t, solver.StatusUnbounded, st)
}

func TestSolve_NegativeLowerBound(t *testing.T) {
	s := newSolver(t, Config{})
	s.NewIntVar("x", -1, solver.Inf)

	st, err := s.Solve()
	assert.Error(t, err)
	assert.Equal(t, solver.StatusError, st)
}

func TestSolve_NodeLimit(t *testing.T) {
	s := newSolver(t, Config{MaxNodes: 1})
	x := s.NewIntVar("x", 0, solver.Inf)
	y := s.NewIntVar("y", 0, solver.Inf)
	s.AddConstraint("cap", expr(map[solver.Var]float64{x: 2, y: 2}), solver.LessEq, 5)
	s.SetObjectiveCoefficient(x, 1)
	s.SetObjectiveCoefficient(y, 1)
	s.SetMaximize()

	st, err := s.Solve()
	assert.Error(t, err)
	assert.Equal(t, solver.StatusError, st)
	assert.Equal(t, 1, s.Nodes())
}

func TestSolve_UnusedVariableStaysZero(t *testing.T) {
	s := newSolver(t, Config{})
	x := s.NewIntVar("x", 0, solver.Inf)
	idle := s.NewIntVar("idle", 0, solver.Inf)
	s.AddConstraint("x", expr(map[solver.Var]float64{x: 1}), solver.GreaterEq, 1)
	s.SetObjectiveCoefficient(x, 1)
	s.SetObjectiveCoefficient(idle, 4)

	st, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, solver.StatusOptimal, st)
	assert.Equal(t, 1.0, s.Value(x))
	assert.Equal(t, 0.0, s.Value(idle))
	assert.Equal(t, 2, s.NumVariables())
	assert.Equal(t, 1, s.NumConstraints())
}

func TestConfig(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, DefaultTolerance, c.Tolerance)
	assert.Equal(t, DefaultIntTolerance, c.IntTolerance)
	assert.Equal(t, DefaultMaxNodes, c.MaxNodes)
	require.NoError(t, c.Validate())

	_, err := New(Config{IntTolerance: 0.7}, nil)
	assert.Error(t, err)
	_, err = New(Config{MaxNodes: -2}, nil)
	assert.Error(t, err)
}

func TestFactory(t *testing.T) {
	s, err := solver.New(factory.ModuleConfig{Type: "gonum", Conf: map[string]any{"max_nodes": "50"}})
	require.NoError(t, err)
	g, ok := s.(*Solver)
	require.True(t, ok)
	assert.Equal(t, 50, g.cfg.MaxNodes)
	assert.Equal(t, DefaultTolerance, g.cfg.Tolerance)
}
