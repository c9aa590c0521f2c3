package scenarios

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestScenarioTables(t *testing.T) {
	sc, err := Load("upkeep.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tables, err := sc.Tables()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if len(tables.Vehicles) != 1 || tables.CostProfiles[2023].MaintenancePct != 2 {
		t.Fatalf("unexpected tables: %+v", tables)
	}
	if cfg := sc.Config(); cfg.StartYear != 2023 || cfg.NumYears != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	_ = tmp.Close()
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
	unnamed := filepath.Join(t.TempDir(), "unnamed.yaml")
	if err := os.WriteFile(unnamed, []byte("planner: {num_years: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(unnamed); err == nil {
		t.Fatal("expected error for missing name")
	}
}
