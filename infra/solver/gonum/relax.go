package gonum

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/fleetplan/core/solver"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var (
	errInfeasible = errors.New("relaxation infeasible")
	errUnbounded  = errors.New("relaxation unbounded")
)

type term struct {
	col  int
	coef float64
}

type row struct {
	name  string
	terms []term
	sense solver.Sense
	rhs   float64
}

// key identifies rows with the same terms, sense and right-hand side.
func (r row) key() string {
	var b strings.Builder
	for _, t := range r.terms {
		b.WriteString(strconv.Itoa(t.col))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(t.coef, 'g', -1, 64))
		b.WriteByte(' ')
	}
	b.WriteString(r.sense.String())
	b.WriteString(strconv.FormatFloat(r.rhs, 'g', -1, 64))
	return b.String()
}

// stdRow is a row of the standard form A x = b, scaled so that its largest
// coefficient is 1 and its right-hand side is non-negative. slack is the
// coefficient of its own slack column, 0 for equalities.
type stdRow struct {
	terms []term
	slack float64
	rhs   float64
}

func newStdRow(r row) stdRow {
	var slack float64
	switch r.sense {
	case solver.LessEq:
		slack = 1
	case solver.GreaterEq:
		slack = -1
	}
	scale := 0.0
	for _, t := range r.terms {
		scale = math.Max(scale, math.Abs(t.coef))
	}
	// Negate rows with a negative right-hand side, and ≥ rows with a zero
	// one so that their slack can start in the basis.
	if r.rhs < 0 || (r.rhs == 0 && slack < 0) {
		scale = -scale
		slack = -slack
	}
	terms := make([]term, len(r.terms))
	for i, t := range r.terms {
		terms[i] = term{col: t.col, coef: t.coef / scale}
	}
	return stdRow{terms: terms, slack: slack, rhs: r.rhs / scale}
}

// Artificial columns cost bigMFactor times the largest objective coefficient.
// The factor grows by bigMGrowth while a feasible relaxation still ends with
// a positive artificial column.
const (
	bigMFactor  = 1e4
	bigMGrowth  = 1e3
	bigMRetries = 3
	feasTol     = 1e-7
)

// stdForm is the matrix handed to lp.Simplex. Columns are laid out as
// structural, slack, then artificial. Every row starts with either its +1
// slack or its artificial column in the basis, so the initial basis is the
// identity and x_B = b ≥ 0.
type stdForm struct {
	A     *mat.Dense
	b     []float64
	art   []int
	basis []int
}

func newStdForm(std []stdRow, index map[int]int, nStruc int) *stdForm {
	m := len(std)
	nSlack := 0
	nArt := 0
	for _, r := range std {
		if r.slack != 0 {
			nSlack++
		}
		if r.slack <= 0 {
			nArt++
		}
	}
	width := nStruc + nSlack + nArt
	f := &stdForm{
		A:     mat.NewDense(m, width, nil),
		b:     make([]float64, m),
		basis: make([]int, m),
	}
	slackCol := nStruc
	artCol := nStruc + nSlack
	for i, r := range std {
		for _, t := range r.terms {
			f.A.Set(i, index[t.col], t.coef)
		}
		f.b[i] = r.rhs
		if r.slack != 0 {
			f.A.Set(i, slackCol, r.slack)
			if r.slack > 0 {
				f.basis[i] = slackCol
			}
			slackCol++
		}
		if r.slack <= 0 {
			f.A.Set(i, artCol, 1)
			f.basis[i] = artCol
			f.art = append(f.art, artCol)
			artCol++
		}
	}
	return f
}

// costs returns the objective over every column: cost on the structural
// columns and artWeight on the artificial ones.
func (f *stdForm) costs(cost []float64, artWeight float64) []float64 {
	_, width := f.A.Dims()
	c := make([]float64, width)
	copy(c, cost)
	for _, j := range f.art {
		c[j] = artWeight
	}
	return c
}

func (f *stdForm) solve(c []float64, tol float64) ([]float64, error) {
	_, sol, err := lp.Simplex(c, f.A, f.b, tol, f.basis)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return nil, errInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return nil, errUnbounded
	case err != nil:
		return nil, fmt.Errorf("simplex: %w", err)
	}
	return sol, nil
}

// residual is the total value left on the artificial columns.
func (f *stdForm) residual(sol []float64) float64 {
	var sum float64
	for _, j := range f.art {
		sum += math.Max(sol[j], 0)
	}
	return sum
}

// feasible runs phase one: it minimizes the artificial columns alone and
// reports whether they can all reach zero.
func (f *stdForm) feasible(tol, limit float64) (bool, error) {
	sol, err := f.solve(f.costs(nil, 1), tol)
	if err != nil {
		return false, err
	}
	return f.residual(sol) <= limit, nil
}

// relax solves the linear relaxation min cost·x over rows with x ≥ 0.
//
// Inequalities get a slack column, equalities stay a single row, and every
// row without a +1 slack gets an artificial column. The artificial columns
// carry a large cost, and phase one decides feasibility when they cannot
// all be driven to zero. Empty rows are checked and dropped, identical rows
// are merged and columns that appear in no row are fixed at zero.
func relax(rows []row, cost []float64, tol float64) (obj float64, x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			obj, x, err = 0, nil, fmt.Errorf("simplex: %v", r)
		}
	}()

	n := len(cost)
	x = make([]float64, n)

	seen := make(map[string]struct{}, len(rows))
	var std []stdRow
	used := make([]bool, n)
	for _, r := range rows {
		terms := r.terms[:0:0]
		for _, t := range r.terms {
			if t.coef != 0 {
				terms = append(terms, t)
			}
		}
		if len(terms) == 0 {
			if !r.sense.Holds(0, r.rhs, tol) {
				return 0, nil, errInfeasible
			}
			continue
		}
		sort.Slice(terms, func(i, j int) bool { return terms[i].col < terms[j].col })
		r.terms = terms
		k := r.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		for _, t := range terms {
			used[t.col] = true
		}
		std = append(std, newStdRow(r))
	}

	// Columns outside every row sit at zero unless they improve the
	// objective without limit.
	cols := make([]int, 0, n)
	index := make(map[int]int, n)
	for j := 0; j < n; j++ {
		if !used[j] {
			if cost[j] < 0 {
				return 0, nil, errUnbounded
			}
			continue
		}
		index[j] = len(cols)
		cols = append(cols, j)
	}
	if len(std) == 0 {
		return 0, x, nil
	}

	f := newStdForm(std, index, len(cols))
	c := make([]float64, len(cols))
	maxCost := 1.0
	for i, j := range cols {
		c[i] = cost[j]
		maxCost = math.Max(maxCost, math.Abs(cost[j]))
	}
	limit := feasTol
	for _, v := range f.b {
		limit = math.Max(limit, feasTol*v)
	}

	var sol []float64
	if len(f.art) == 0 {
		if sol, err = f.solve(c, tol); err != nil {
			return 0, nil, err
		}
	} else {
		weight := bigMFactor * maxCost
		checked := false
		for attempt := 0; ; attempt++ {
			sol, err = f.solve(f.costs(c, weight), tol)
			if err == nil && f.residual(sol) <= limit {
				break
			}
			if err != nil && !errors.Is(err, errUnbounded) {
				return 0, nil, err
			}
			if !checked {
				ok, ferr := f.feasible(tol, limit)
				if ferr != nil {
					return 0, nil, ferr
				}
				if !ok {
					return 0, nil, errInfeasible
				}
				checked = true
			}
			if err != nil {
				return 0, nil, err
			}
			if attempt+1 >= bigMRetries {
				return 0, nil, fmt.Errorf("simplex: artificial columns stay positive")
			}
			weight *= bigMGrowth
		}
	}

	for i, j := range cols {
		v := sol[i]
		if v < 0 {
			v = 0
		}
		x[j] = v
		obj += cost[j] * v
	}
	if math.IsNaN(obj) {
		return 0, nil, fmt.Errorf("simplex: objective is NaN")
	}
	return obj, x, nil
}
