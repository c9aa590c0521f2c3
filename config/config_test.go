package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `planner:
  start_year: 2025
  num_years: 5
  lifespan_years: 8
  turnover_cap: 0.25
input:
  path: "data/fleet.xlsx"
output:
  path: "out/plan.json"
  chart_path: "out/plan.html"
solver:
  type: "gonum"
  conf:
    max_nodes: 500
metrics:
  sinks:
    - type: "nop"
history:
  backend: "sqlite"
  path: "runs.db"
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  username: "user"
  password: "pass"
  qos: 1
sentry:
  environment: "test"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"start_year", cfg.Planner.StartYear, 2025},
		{"num_years", cfg.Planner.NumYears, 5},
		{"lifespan_years", cfg.Planner.LifespanYears, 8},
		{"turnover_cap", cfg.Planner.TurnoverCap, 0.25},
		{"input.format", cfg.Input.Format, "xlsx"},
		{"output.format", cfg.Output.Format, "json"},
		{"output.chart_path", cfg.Output.ChartPath, "out/plan.html"},
		{"solver.type", cfg.Solver.Type, "gonum"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"history.backend", cfg.History.Backend, "sqlite"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "cli"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.topic", cfg.MQTT.Topic, "fleetplan/plans"},
		{"sentry.environment", cfg.Sentry.Environment, "test"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
	assert.EqualValues(t, 500, cfg.Solver.Conf["max_nodes"])
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2023, cfg.Planner.StartYear)
	assert.Equal(t, 16, cfg.Planner.NumYears)
	assert.Equal(t, []string{"D1", "D2", "D3", "D4"}, cfg.Planner.DistanceBuckets)
	assert.Equal(t, "solution.csv", cfg.Output.Path)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, DefaultSolver, cfg.Solver.Type)
	assert.Equal(t, "none", cfg.History.Backend)
	assert.False(t, cfg.MQTT.Enabled())
	assert.Empty(t, cfg.MQTT.Topic)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"planner":{"num_years":4}}`), 0o644))
	t.Setenv("K_PLANNER__NUM_YEARS", "7")
	t.Setenv("K_OUTPUT__PATH", "plan.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Planner.NumYears)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "config.toml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("planner:\n  turnover_cap: 2\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	badHistory := filepath.Join(dir, "history.yaml")
	require.NoError(t, os.WriteFile(badHistory, []byte("history:\n  backend: redis\n"), 0o644))
	_, err = Load(badHistory)
	assert.Error(t, err)
}

func TestOutputConfig(t *testing.T) {
	c := OutputConfig{Path: "plan.yml"}
	c.SetDefaults()
	assert.Equal(t, "yaml", c.Format)
	assert.NoError(t, c.Validate())

	c = OutputConfig{Path: "plan.csv", Format: "xml"}
	assert.Error(t, c.Validate())

	c = OutputConfig{FillBlankDistance: true}
	c.SetDefaults()
	assert.True(t, c.Options().FillBlankDistance)
}
