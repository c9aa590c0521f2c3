package planner

import (
	"fmt"
	"time"

	"github.com/kilianp07/fleetplan/core/logger"
	"github.com/kilianp07/fleetplan/core/metrics"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/solver"
)

// Result is the outcome of one planning run.
type Result struct {
	RunID         string
	Status        solver.Status
	Objective     float64
	Records       []Record
	Summary       []model.YearSummary
	Violations    []Violation
	Stats         BuildStats
	BuildDuration time.Duration
	SolveDuration time.Duration
}

// Planner runs build, solve and extraction for a set of tables.
type Planner struct {
	cfg     Config
	logger  logger.Logger
	metrics metrics.MetricsSink
	now     func() time.Time
}

// New returns a planner using cfg. A nil sink disables metrics.
func New(cfg Config, log logger.Logger, sink metrics.MetricsSink) (*Planner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Planner{cfg: cfg, logger: logger.OrNop(log), metrics: sink, now: time.Now}, nil
}

// Config returns the effective configuration.
func (p *Planner) Config() Config { return p.cfg }

// Build constructs the model on s without solving it.
func (p *Planner) Build(tables *model.Tables, s solver.Solver) (*Model, error) {
	b, err := NewBuilder(p.cfg, tables, p.logger)
	if err != nil {
		return nil, err
	}
	return b.Build(s)
}

// Plan builds the model on s, solves it and extracts the records. When the
// solver ends without a solution the returned error is an
// *InfeasibleModelError and the result still carries the status and
// build statistics.
func (p *Planner) Plan(runID string, tables *model.Tables, s solver.Solver) (*Result, error) {
	res := &Result{RunID: runID, Status: solver.StatusNotSolved}

	start := p.now()
	m, err := p.Build(tables, s)
	if err != nil {
		return res, fmt.Errorf("build model: %w", err)
	}
	res.BuildDuration = p.now().Sub(start)
	res.Stats = m.Stats
	if err := p.metrics.RecordBuild(metrics.BuildEvent{
		RunID:       runID,
		Variables:   m.Stats.Variables(),
		Constraints: m.Stats.Constraints,
		Families:    m.Stats.Families,
		Duration:    res.BuildDuration,
		Time:        p.now(),
	}); err != nil {
		p.logger.Warnf("record build metrics: %v", err)
	}

	start = p.now()
	status, solveErr := m.Solve()
	res.SolveDuration = p.now().Sub(start)
	res.Status = status
	if status.HasSolution() {
		res.Objective = s.ObjectiveValue()
	}
	if err := p.metrics.RecordSolve(metrics.SolveEvent{
		RunID:     runID,
		Status:    status.String(),
		Objective: res.Objective,
		Duration:  res.SolveDuration,
		Time:      p.now(),
	}); err != nil {
		p.logger.Warnf("record solve metrics: %v", err)
	}
	if solveErr != nil {
		p.logger.Errorf("run %s: solver ended with %s", runID, status)
		return res, solveErr
	}
	p.logger.Infow("model solved", map[string]any{
		"run_id":    runID,
		"status":    status.String(),
		"objective": res.Objective,
		"build_ms":  res.BuildDuration.Milliseconds(),
		"solve_ms":  res.SolveDuration.Milliseconds(),
	})

	if res.Records, err = Extract(m); err != nil {
		return res, err
	}
	if res.Summary, err = Summarize(m); err != nil {
		return res, err
	}
	if res.Violations, err = Audit(m); err != nil {
		return res, err
	}
	for _, v := range res.Violations {
		p.logger.Warnf("run %s: %s", runID, v)
	}

	if rec, ok := p.metrics.(metrics.PlanSummaryRecorder); ok {
		if err := rec.RecordPlanSummary(metrics.PlanSummaryEvent{
			RunID:      runID,
			Years:      res.Summary,
			Violations: len(res.Violations),
			Time:       p.now(),
		}); err != nil {
			p.logger.Warnf("record plan summary: %v", err)
		}
	}
	return res, nil
}
