package gonum

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/fleetplan/core/solver"
)

type node struct {
	bounds []row
	depth  int
}

type bnbResult struct {
	status solver.Status
	x      []float64
	err    error
}

// branchAndBound explores the tree depth first, branching on the most
// fractional variable and exploring the rounded-up child first.
func (s *Solver) branchAndBound(base []row, cost []float64) bnbResult {
	s.nodes = 0
	best := math.Inf(1)
	var incumbent []float64
	limited := false

	stack := []node{{}}
	for len(stack) > 0 {
		if s.nodes >= s.cfg.MaxNodes {
			limited = true
			break
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.nodes++

		rows := base
		if len(nd.bounds) > 0 {
			rows = make([]row, 0, len(base)+len(nd.bounds))
			rows = append(rows, base...)
			rows = append(rows, nd.bounds...)
		}
		f, x, err := relax(rows, cost, s.cfg.Tolerance)
		if err != nil {
			root := nd.depth == 0
			switch {
			case errors.Is(err, errInfeasible):
				if root {
					return bnbResult{status: solver.StatusInfeasible}
				}
			case errors.Is(err, errUnbounded):
				if root {
					return bnbResult{status: solver.StatusUnbounded}
				}
			default:
				if root {
					return bnbResult{status: solver.StatusError, err: err}
				}
				s.logger.Debugf("node at depth %d dropped: %v", nd.depth, err)
			}
			continue
		}
		if incumbent != nil && f >= best-s.cfg.Tolerance*math.Max(1, math.Abs(best)) {
			continue
		}

		j := s.mostFractional(x)
		if j < 0 {
			best = f
			incumbent = s.rounded(x)
			s.logger.Debugf("incumbent %.6g at node %d", f, s.nodes)
			continue
		}
		floor := math.Floor(x[j])
		down := append(append([]row(nil), nd.bounds...), boundRow(j, solver.LessEq, floor))
		up := append(append([]row(nil), nd.bounds...), boundRow(j, solver.GreaterEq, floor+1))
		stack = append(stack, node{bounds: down, depth: nd.depth + 1}, node{bounds: up, depth: nd.depth + 1})
	}

	switch {
	case incumbent != nil && limited:
		s.logger.Warnf("node limit %d reached, returning best plan found", s.cfg.MaxNodes)
		return bnbResult{status: solver.StatusFeasible, x: incumbent}
	case incumbent != nil:
		return bnbResult{status: solver.StatusOptimal, x: incumbent}
	case limited:
		return bnbResult{status: solver.StatusError,
			err: fmt.Errorf("gonum solver: node limit %d reached without an integral solution", s.cfg.MaxNodes)}
	default:
		return bnbResult{status: solver.StatusInfeasible}
	}
}

// mostFractional returns the variable whose relaxed value is farthest from
// an integer, or -1 when every value is integral within IntTolerance.
func (s *Solver) mostFractional(x []float64) int {
	idx := -1
	worst := s.cfg.IntTolerance
	for i, v := range x {
		d := math.Abs(v - math.Round(v))
		if d > worst {
			worst = d
			idx = i
		}
	}
	return idx
}

func (s *Solver) rounded(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Round(v)
	}
	return out
}
