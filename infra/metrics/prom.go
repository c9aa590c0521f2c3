package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/fleetplan/core/metrics"
)

// PromSink exposes planning runs as Prometheus metrics.
type PromSink struct {
	variables   prometheus.Gauge
	constraints *prometheus.GaugeVec
	build       prometheus.Histogram
	solve       *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	objective   prometheus.Gauge
	fleet       *prometheus.GaugeVec
	emissions   *prometheus.GaugeVec
	violations  prometheus.Gauge
}

// NewPromSink registers planning metrics on the default Prometheus registerer.
// The HTTP endpoint is served separately by StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.variables, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleetplan_model_variables",
		Help: "Decision variables of the last built model",
	})); err != nil {
		return nil, err
	}
	if s.constraints, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleetplan_model_constraints",
		Help: "Constraints of the last built model per family",
	}, []string{"family"})); err != nil {
		return nil, err
	}
	if s.build, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleetplan_build_seconds",
		Help:    "Time spent building the model",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.solve, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleetplan_solve_seconds",
		Help:    "Time spent in the solver",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"status"})); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetplan_runs_total",
		Help: "Solver runs by terminal status",
	}, []string{"status"})); err != nil {
		return nil, err
	}
	if s.objective, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleetplan_objective_cost",
		Help: "Objective value of the last solved plan",
	})); err != nil {
		return nil, err
	}
	if s.fleet, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleetplan_fleet_vehicles",
		Help: "Vehicles held at the start of each planning year",
	}, []string{"year"})); err != nil {
		return nil, err
	}
	if s.emissions, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleetplan_emissions_kg",
		Help: "Planned emissions per year",
	}, []string{"year"})); err != nil {
		return nil, err
	}
	if s.violations, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleetplan_audit_violations",
		Help: "Constraints broken by the rounded plan",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordBuild sets the model size gauges.
func (s *PromSink) RecordBuild(ev coremetrics.BuildEvent) error {
	s.variables.Set(float64(ev.Variables))
	s.constraints.Reset()
	for family, n := range ev.Families {
		s.constraints.WithLabelValues(family).Set(float64(n))
	}
	s.build.Observe(ev.Duration.Seconds())
	return nil
}

// RecordSolve counts the run and observes its duration.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.runs.WithLabelValues(ev.Status).Inc()
	s.solve.WithLabelValues(ev.Status).Observe(ev.Duration.Seconds())
	s.objective.Set(ev.Objective)
	return nil
}

// RecordPlanSummary publishes the per-year fleet and emissions.
func (s *PromSink) RecordPlanSummary(ev coremetrics.PlanSummaryEvent) error {
	s.fleet.Reset()
	s.emissions.Reset()
	for _, y := range ev.Years {
		year := strconv.Itoa(y.Year)
		s.fleet.WithLabelValues(year).Set(float64(y.Fleet))
		s.emissions.WithLabelValues(year).Set(y.EmissionsKg)
	}
	s.violations.Set(float64(ev.Violations))
	return nil
}
