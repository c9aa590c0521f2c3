package solver

import "github.com/kilianp07/fleetplan/core/factory"

var registry = factory.NewRegistry[Solver]()

// Register adds a backend factory identified by name.
func Register(name string, f factory.Factory[Solver]) error {
	return registry.Register(name, f)
}

// New creates a fresh backend from its module configuration. A solver
// instance is single-use: build one model on it, solve, read values.
func New(cfg factory.ModuleConfig) (Solver, error) {
	return registry.Create(cfg)
}

func init() {
	_ = Register("recorder", func(map[string]any) (Solver, error) {
		return NewRecorder(), nil
	})
}
