package scenarios

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/fleetplan/core/planner"
	"github.com/kilianp07/fleetplan/infra/logger"
	"github.com/kilianp07/fleetplan/infra/metrics"
	"github.com/kilianp07/fleetplan/infra/solver/gonum"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	tables, err := sc.Tables()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	p, err := planner.New(sc.Config(), logger.NopLogger{}, sink)
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	s, err := gonum.New(gonum.Config{}, logger.NopLogger{})
	if err != nil {
		t.Fatalf("solver: %v", err)
	}

	res, err := p.Plan(sc.Name, tables, s)
	if got := res.Status.String(); got != sc.Expected.Status {
		t.Fatalf("status %s, expected %s (err: %v)", got, sc.Expected.Status, err)
	}
	if n, cerr := testutil.GatherAndCount(reg, "fleetplan_runs_total"); cerr != nil || n != 1 {
		t.Errorf("solver run not recorded: %d series (%v)", n, cerr)
	}
	if err != nil {
		return
	}

	if sc.Expected.Objective != nil {
		if diff := res.Objective - *sc.Expected.Objective; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("objective %v, expected %v", res.Objective, *sc.Expected.Objective)
		}
	}
	if len(res.Violations) != 0 {
		t.Errorf("plan breaks constraints: %v", res.Violations)
	}
	bought := map[int]int{}
	fleet := map[int]int{}
	for _, y := range res.Summary {
		bought[y.Year] = y.Bought
		fleet[y.Year] = y.Fleet
	}
	for y, n := range sc.Expected.Bought {
		if bought[y] != n {
			t.Errorf("bought in %d: %d, expected %d", y, bought[y], n)
		}
	}
	for y, n := range sc.Expected.Fleet {
		if fleet[y] != n {
			t.Errorf("fleet in %d: %d, expected %d", y, fleet[y], n)
		}
	}
}
