package metrics

// Package metrics defines the sinks that observe planning runs. A sink
// records model construction (variable and constraint counts) and solver
// outcomes; sinks implementing PlanSummaryRecorder also receive per-year
// aggregates of the solved plan. Sinks are created from configuration via
// NewMetricsSink, which returns a MultiSink when several are configured.
