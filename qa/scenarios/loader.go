// Package scenarios runs small planning scenarios described in YAML files
// end to end and checks their expected outcome.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/planner"
)

type VehicleDef struct {
	ID          string  `yaml:"id"`
	Drivetrain  string  `yaml:"drivetrain"`
	Size        string  `yaml:"size"`
	Distance    string  `yaml:"distance"`
	Cost        float64 `yaml:"cost"`
	YearlyRange float64 `yaml:"yearly_range"`
}

type FuelDef struct {
	Name           string  `yaml:"name"`
	EmissionFactor float64 `yaml:"emission_factor"`
	UnitCost       float64 `yaml:"unit_cost"`
}

type ConsumptionDef struct {
	Vehicle string  `yaml:"vehicle"`
	Fuel    string  `yaml:"fuel"`
	PerKm   float64 `yaml:"per_km"`
}

type DemandDef struct {
	Year     int     `yaml:"year"`
	Size     string  `yaml:"size"`
	Distance string  `yaml:"distance"`
	Km       float64 `yaml:"km"`
}

type CostProfileDef struct {
	Resale      float64 `yaml:"resale"`
	Insurance   float64 `yaml:"insurance"`
	Maintenance float64 `yaml:"maintenance"`
}

type PlannerDef struct {
	StartYear       int      `yaml:"start_year"`
	NumYears        int      `yaml:"num_years"`
	DistanceBuckets []string `yaml:"distance_buckets,omitempty"`
	LifespanYears   int      `yaml:"lifespan_years"`
	TurnoverCap     float64  `yaml:"turnover_cap"`
}

type Expected struct {
	Status    string      `yaml:"status"`
	Objective *float64    `yaml:"objective,omitempty"`
	Bought    map[int]int `yaml:"bought,omitempty"`
	Fleet     map[int]int `yaml:"fleet,omitempty"`
}

type Scenario struct {
	Name         string                 `yaml:"name"`
	Description  string                 `yaml:"description,omitempty"`
	Planner      PlannerDef             `yaml:"planner"`
	Vehicles     []VehicleDef           `yaml:"vehicles"`
	Fuels        []FuelDef              `yaml:"fuels"`
	Consumption  []ConsumptionDef       `yaml:"consumption"`
	Demand       []DemandDef            `yaml:"demand"`
	Carbon       map[int]float64        `yaml:"carbon"`
	CostProfiles map[int]CostProfileDef `yaml:"cost_profiles,omitempty"`
	Expected     Expected               `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	return &sc, nil
}

// Config returns the planner configuration of the scenario.
func (s *Scenario) Config() planner.Config {
	return planner.Config{
		StartYear:       s.Planner.StartYear,
		NumYears:        s.Planner.NumYears,
		DistanceBuckets: s.Planner.DistanceBuckets,
		LifespanYears:   s.Planner.LifespanYears,
		TurnoverCap:     s.Planner.TurnoverCap,
	}
}

// Tables builds the domain tables of the scenario.
func (s *Scenario) Tables() (*model.Tables, error) {
	t := model.NewTables()
	for _, f := range s.Fuels {
		if err := t.AddFuel(model.Fuel{Name: f.Name, EmissionFactor: f.EmissionFactor, UnitCost: f.UnitCost}); err != nil {
			return nil, err
		}
	}
	for _, v := range s.Vehicles {
		veh, err := model.NewVehicle(v.ID, v.Drivetrain, v.Size, v.Distance, v.Cost, v.YearlyRange)
		if err != nil {
			return nil, err
		}
		if err := t.AddVehicle(veh); err != nil {
			return nil, err
		}
	}
	for _, c := range s.Consumption {
		if err := t.SetConsumption(c.Vehicle, c.Fuel, c.PerKm); err != nil {
			return nil, err
		}
	}
	for _, d := range s.Demand {
		if err := t.SetDemand(model.DemandKey{Year: d.Year, Size: d.Size, Distance: d.Distance}, d.Km); err != nil {
			return nil, err
		}
	}
	for y, kg := range s.Carbon {
		t.SetCarbonLimit(y, kg)
	}
	for y, p := range s.CostProfiles {
		cp := model.CostProfile{ResalePct: p.Resale, InsurancePct: p.Insurance, MaintenancePct: p.Maintenance}
		if err := t.SetCostProfile(y, cp); err != nil {
			return nil, err
		}
	}
	return t, nil
}
