// Package infra contains technical adapters: the table loader, the gonum
// solver backend, metrics sinks, the MQTT publisher and Sentry monitoring.
// These packages depend only on the interfaces defined in the core packages.
package infra
