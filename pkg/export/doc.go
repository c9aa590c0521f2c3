// Package export writes planning results as CSV, JSON or YAML reports and
// renders yearly summaries as an HTML chart.
package export
