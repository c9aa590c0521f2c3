// Package solver defines the contract between the fleet plan model and a
// mixed integer programming backend. Backends register themselves by name
// and are created from configuration with New. Recorder is an in-memory
// implementation used to inspect a model without solving it.
package solver
