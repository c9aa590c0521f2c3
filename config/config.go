package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fleetplan/core/factory"
	"github.com/kilianp07/fleetplan/core/history"
	"github.com/kilianp07/fleetplan/core/metrics"
	"github.com/kilianp07/fleetplan/core/planner"
	"github.com/kilianp07/fleetplan/infra/loader"
	"github.com/kilianp07/fleetplan/infra/monitoring"
	"github.com/kilianp07/fleetplan/infra/mqtt"
)

// DefaultSolver is the solver backend used when none is configured.
const DefaultSolver = "gonum"

type Config struct {
	Planner planner.Config       `json:"planner"`
	Input   loader.Config        `json:"input"`
	Output  OutputConfig         `json:"output"`
	Solver  factory.ModuleConfig `json:"solver"`
	Metrics metrics.Config       `json:"metrics"`
	History history.Config       `json:"history"`
	MQTT    mqtt.Config          `json:"mqtt"`
	Sentry  monitoring.Config    `json:"sentry"`
}

// Load reads the configuration file at path, applies K_ prefixed environment
// overrides, then defaults and validation. An empty path uses the
// environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// K_PLANNER__NUM_YEARS overrides planner.num_years.
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every unset section.
func (c *Config) SetDefaults() {
	c.Planner.SetDefaults()
	c.Input.SetDefaults()
	c.Output.SetDefaults()
	c.History.SetDefaults()
	if c.Solver.Type == "" {
		c.Solver.Type = DefaultSolver
	}
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section. The input path is checked by the loader
// so that it can be supplied after loading.
func (c *Config) Validate() error {
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if c.MQTT.Enabled() {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	return nil
}
