package metrics

import "github.com/kilianp07/fleetplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when set, serves /metrics while a plan runs.
	PrometheusAddr string `json:"prometheus_addr"`
}
