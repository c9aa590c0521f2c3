// Package gonum implements solver.Solver with gonum's simplex method and a
// depth-first branch and bound on top of it.
package gonum

import (
	"fmt"
	"math"

	"github.com/kilianp07/fleetplan/core/factory"
	"github.com/kilianp07/fleetplan/core/logger"
	"github.com/kilianp07/fleetplan/core/solver"
	infralogger "github.com/kilianp07/fleetplan/infra/logger"
)

// Defaults applied by SetDefaults.
const (
	DefaultTolerance    = 1e-9
	DefaultIntTolerance = 1e-6
	DefaultMaxNodes     = 10000
)

// Config tunes the backend.
type Config struct {
	// Tolerance is handed to lp.Simplex.
	Tolerance float64 `json:"tolerance"`
	// IntTolerance is the distance to the nearest integer below which a
	// relaxed value counts as integral.
	IntTolerance float64 `json:"int_tolerance"`
	// MaxNodes bounds the branch and bound tree.
	MaxNodes int `json:"max_nodes"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.IntTolerance == 0 {
		c.IntTolerance = DefaultIntTolerance
	}
	if c.MaxNodes == 0 {
		c.MaxNodes = DefaultMaxNodes
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if c.Tolerance <= 0 || c.IntTolerance <= 0 {
		return fmt.Errorf("gonum solver: tolerances must be positive")
	}
	if c.IntTolerance >= 0.5 {
		return fmt.Errorf("gonum solver: int_tolerance must be below 0.5")
	}
	if c.MaxNodes < 1 {
		return fmt.Errorf("gonum solver: max_nodes must be at least 1")
	}
	return nil
}

type variable struct {
	name  string
	lower float64
	upper float64
}

// Solver collects an integer program and solves it on Solve. It is
// single-use and not safe for concurrent use.
type Solver struct {
	cfg    Config
	logger logger.Logger

	vars     []variable
	rows     []row
	obj      []float64
	maximize bool

	status    solver.Status
	values    []float64
	objective float64
	nodes     int
}

// New returns an empty solver. Zero config fields take their defaults.
func New(cfg Config, log logger.Logger) (*Solver, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{cfg: cfg, logger: logger.OrNop(log), status: solver.StatusNotSolved}, nil
}

func init() {
	_ = solver.Register("gonum", func(conf map[string]any) (solver.Solver, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return New(c, infralogger.New("solver"))
	})
}

func (s *Solver) NewIntVar(name string, lower, upper float64) solver.Var {
	s.vars = append(s.vars, variable{name: name, lower: lower, upper: upper})
	s.obj = append(s.obj, 0)
	return solver.Var(len(s.vars) - 1)
}

func (s *Solver) AddConstraint(name string, expr solver.Expr, sense solver.Sense, rhs float64) {
	r := row{name: name, sense: sense, rhs: rhs}
	for _, v := range expr.Vars() {
		r.terms = append(r.terms, term{col: int(v), coef: expr[v]})
	}
	s.rows = append(s.rows, r)
}

func (s *Solver) SetObjectiveCoefficient(v solver.Var, coef float64) {
	if int(v) >= 0 && int(v) < len(s.obj) {
		s.obj[v] = coef
	}
}

func (s *Solver) SetMinimize() { s.maximize = false }

// SetMaximize flips the objective direction.
func (s *Solver) SetMaximize() { s.maximize = true }

func (s *Solver) Value(v solver.Var) float64 {
	if !s.status.HasSolution() || int(v) < 0 || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

func (s *Solver) ObjectiveValue() float64 {
	if !s.status.HasSolution() {
		return 0
	}
	return s.objective
}

func (s *Solver) NumVariables() int   { return len(s.vars) }
func (s *Solver) NumConstraints() int { return len(s.rows) }

// Nodes is the number of branch and bound nodes explored by the last Solve.
func (s *Solver) Nodes() int { return s.nodes }

// Solve runs branch and bound. It returns StatusOptimal when the tree is
// exhausted, StatusFeasible when the node limit stopped the search after an
// integral solution was found, and StatusError otherwise.
func (s *Solver) Solve() (solver.Status, error) {
	base, err := s.boundRows()
	if err != nil {
		s.status = solver.StatusError
		return s.status, err
	}
	cost := make([]float64, len(s.obj))
	for i, c := range s.obj {
		if s.maximize {
			c = -c
		}
		cost[i] = c
	}

	res := s.branchAndBound(base, cost)
	s.status = res.status
	if res.status.HasSolution() {
		s.values = res.x
		s.objective = 0
		for i, c := range s.obj {
			s.objective += c * res.x[i]
		}
	}
	s.logger.Infow("branch and bound finished", map[string]any{
		"status":      res.status.String(),
		"nodes":       s.nodes,
		"variables":   len(s.vars),
		"constraints": len(s.rows),
	})
	return res.status, res.err
}

// boundRows turns variable bounds into rows. The standard form already
// enforces x ≥ 0, so only positive lower bounds and finite upper bounds are
// added.
func (s *Solver) boundRows() ([]row, error) {
	out := make([]row, 0, len(s.rows))
	out = append(out, s.rows...)
	for i, v := range s.vars {
		if v.lower < 0 || math.IsInf(v.lower, 0) || math.IsNaN(v.lower) {
			return nil, fmt.Errorf("gonum solver: variable %s: lower bound %v is not supported", v.name, v.lower)
		}
		if v.upper < v.lower {
			return nil, fmt.Errorf("gonum solver: variable %s: upper bound below lower bound", v.name)
		}
		if v.lower > 0 {
			out = append(out, boundRow(i, solver.GreaterEq, v.lower))
		}
		if !math.IsInf(v.upper, 1) {
			out = append(out, boundRow(i, solver.LessEq, v.upper))
		}
	}
	return out, nil
}

func boundRow(col int, sense solver.Sense, rhs float64) row {
	return row{terms: []term{{col: col, coef: 1}}, sense: sense, rhs: rhs}
}
