package metrics

import (
	"time"

	"github.com/kilianp07/fleetplan/core/model"
)

// BuildEvent describes a constructed optimisation model.
type BuildEvent struct {
	RunID       string
	Variables   int
	Constraints int
	// Families counts constraints per family (availability, demand, ...).
	Families map[string]int
	Duration time.Duration
	Time     time.Time
}

// SolveEvent describes the outcome of a solver run.
type SolveEvent struct {
	RunID     string
	Status    string
	Objective float64
	Duration  time.Duration
	Time      time.Time
}

// MetricsSink records planning events for observability purposes.
type MetricsSink interface {
	RecordBuild(ev BuildEvent) error
	RecordSolve(ev SolveEvent) error
}

// PlanSummaryEvent carries the per-year aggregates of a solved plan.
type PlanSummaryEvent struct {
	RunID      string
	Years      []model.YearSummary
	Violations int
	Time       time.Time
}

// PlanSummaryRecorder records per-year plan aggregates.
type PlanSummaryRecorder interface {
	RecordPlanSummary(ev PlanSummaryEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordBuild(BuildEvent) error             { return nil }
func (NopSink) RecordSolve(SolveEvent) error             { return nil }
func (NopSink) RecordPlanSummary(PlanSummaryEvent) error { return nil }
