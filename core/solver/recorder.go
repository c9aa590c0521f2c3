package solver

import "fmt"

// VarInfo describes a variable registered on a Recorder.
type VarInfo struct {
	Name  string
	Lower float64
	Upper float64
}

// Constraint is a linear constraint registered on a Recorder.
type Constraint struct {
	Name  string
	Expr  Expr
	Sense Sense
	RHS   float64
}

// Recorder implements Solver without solving anything. It keeps every
// variable, constraint and objective coefficient so that model construction
// can be inspected, and returns scripted values from Solve.
type Recorder struct {
	Vars        []VarInfo
	Constraints []Constraint
	Objective   map[Var]float64
	Minimize    bool

	// Result is the status returned by Solve.
	Result Status
	// Values holds scripted solution values keyed by variable name.
	Values map[string]float64

	byName map[string]Var
	solved Status
}

// NewRecorder returns a Recorder whose Solve reports StatusOptimal.
func NewRecorder() *Recorder {
	return &Recorder{
		Objective: make(map[Var]float64),
		Values:    make(map[string]float64),
		Result:    StatusOptimal,
		byName:    make(map[string]Var),
	}
}

func (r *Recorder) NewIntVar(name string, lower, upper float64) Var {
	v := Var(len(r.Vars))
	r.Vars = append(r.Vars, VarInfo{Name: name, Lower: lower, Upper: upper})
	r.byName[name] = v
	return v
}

func (r *Recorder) AddConstraint(name string, expr Expr, sense Sense, rhs float64) {
	cp := make(Expr, len(expr))
	for v, c := range expr {
		cp[v] = c
	}
	r.Constraints = append(r.Constraints, Constraint{Name: name, Expr: cp, Sense: sense, RHS: rhs})
}

func (r *Recorder) SetObjectiveCoefficient(v Var, coef float64) { r.Objective[v] = coef }

func (r *Recorder) SetMinimize() { r.Minimize = true }

// Solve returns the scripted Result.
func (r *Recorder) Solve() (Status, error) {
	r.solved = r.Result
	return r.Result, nil
}

func (r *Recorder) Value(v Var) float64 {
	if int(v) < 0 || int(v) >= len(r.Vars) {
		return 0
	}
	return r.Values[r.Vars[v].Name]
}

// ObjectiveValue evaluates the recorded objective on the scripted values.
func (r *Recorder) ObjectiveValue() float64 {
	return Expr(r.Objective).Eval(r.Value)
}

func (r *Recorder) NumVariables() int   { return len(r.Vars) }
func (r *Recorder) NumConstraints() int { return len(r.Constraints) }

// Lookup returns the handle of the variable registered under name.
func (r *Recorder) Lookup(name string) (Var, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Constraint returns the constraint registered under name.
func (r *Recorder) Constraint(name string) (Constraint, bool) {
	for _, c := range r.Constraints {
		if c.Name == name {
			return c, true
		}
	}
	return Constraint{}, false
}

// Coef returns the coefficient of the named variable in expr.
func (r *Recorder) Coef(expr Expr, name string) float64 {
	v, ok := r.byName[name]
	if !ok {
		return 0
	}
	return expr[v]
}

// Set scripts the solved value of the named variable.
func (r *Recorder) Set(name string, value float64) error {
	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("recorder: unknown variable %s", name)
	}
	r.Values[name] = value
	return nil
}
