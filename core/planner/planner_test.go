package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetplan/core/metrics"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/solver"
)

type captureSink struct {
	builds    []metrics.BuildEvent
	solves    []metrics.SolveEvent
	summaries []metrics.PlanSummaryEvent
}

func (c *captureSink) RecordBuild(ev metrics.BuildEvent) error {
	c.builds = append(c.builds, ev)
	return nil
}

func (c *captureSink) RecordSolve(ev metrics.SolveEvent) error {
	c.solves = append(c.solves, ev)
	return nil
}

func (c *captureSink) RecordPlanSummary(ev metrics.PlanSummaryEvent) error {
	c.summaries = append(c.summaries, ev)
	return nil
}

type failingSink struct{}

func (failingSink) RecordBuild(metrics.BuildEvent) error { return errors.New("down") }
func (failingSink) RecordSolve(metrics.SolveEvent) error { return errors.New("down") }

func TestPlanner_Plan(t *testing.T) {
	sink := &captureSink{}
	p, err := New(testConfig(), nil, sink)
	require.NoError(t, err)

	rec := solver.NewRecorder()
	res, err := p.Plan("run-1", testTables(t), rec)
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, solver.StatusOptimal, res.Status)
	assert.Equal(t, 32, res.Stats.Variables())
	assert.Len(t, res.Records, 24)
	assert.Len(t, res.Summary, 3)
	assert.NotEmpty(t, res.Violations, "an all-zero plan misses demand")

	require.Len(t, sink.builds, 1)
	assert.Equal(t, "run-1", sink.builds[0].RunID)
	assert.Equal(t, 32, sink.builds[0].Variables)
	assert.Equal(t, rec.NumConstraints(), sink.builds[0].Constraints)
	require.Len(t, sink.solves, 1)
	assert.Equal(t, "OPTIMAL", sink.solves[0].Status)
	require.Len(t, sink.summaries, 1)
	assert.Equal(t, len(res.Violations), sink.summaries[0].Violations)
	assert.Len(t, sink.summaries[0].Years, 3)
}

func TestPlanner_PlanInfeasible(t *testing.T) {
	sink := &captureSink{}
	p, err := New(testConfig(), nil, sink)
	require.NoError(t, err)

	rec := solver.NewRecorder()
	rec.Result = solver.StatusInfeasible
	res, err := p.Plan("run-2", testTables(t), rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfeasible))
	assert.Equal(t, solver.StatusInfeasible, res.Status)
	assert.Nil(t, res.Records)
	require.Len(t, sink.solves, 1)
	assert.Equal(t, "INFEASIBLE", sink.solves[0].Status)
	assert.Empty(t, sink.summaries)
}

func TestPlanner_PlanSchemaError(t *testing.T) {
	p, err := New(testConfig(), nil, nil)
	require.NoError(t, err)
	tb := testTables(t)
	delete(tb.CarbonLimits, 2024)

	res, err := p.Plan("run-3", tb, solver.NewRecorder())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrSchema))
	assert.Equal(t, solver.StatusNotSolved, res.Status)
}

func TestPlanner_SinkErrorsAreNotFatal(t *testing.T) {
	p, err := New(testConfig(), nil, failingSink{})
	require.NoError(t, err)
	_, err = p.Plan("run-4", testTables(t), solver.NewRecorder())
	assert.NoError(t, err)
}

func TestPlanner_Build(t *testing.T) {
	p, err := New(Config{StartYear: 2023, NumYears: 1}, nil, nil)
	require.NoError(t, err)
	rec := solver.NewRecorder()
	m, err := p.Build(testTables(t), rec)
	require.NoError(t, err)
	assert.Len(t, m.Cohorts, 1, "ICE is bought in 2024")
	assert.Equal(t, solver.StatusNotSolved, m.Status())
	assert.Equal(t, 2023, p.Config().StartYear)
	assert.Equal(t, DefaultLifespanYears, p.Config().LifespanYears)
}
