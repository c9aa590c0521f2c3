// Package metrics provides the Prometheus and InfluxDB sinks for planning
// runs and the HTTP endpoint that exposes Prometheus metrics.
package metrics
