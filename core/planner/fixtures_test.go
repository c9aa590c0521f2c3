package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetplan/core/model"
)

const (
	bev    = "BEV_S1_D2_2023"
	ice    = "ICE_S1_D1_2024"
	future = "BEV_S2_D4_2030"
)

// testTables returns a small fleet: two cohorts bought inside 2023-2025 and
// one bought after it.
func testTables(t *testing.T) *model.Tables {
	t.Helper()
	tb := model.NewTables()
	addVehicle := func(id, drivetrain, size, distance string, cost float64) {
		v, err := model.NewVehicle(id, drivetrain, size, distance, cost, 100000)
		require.NoError(t, err)
		require.NoError(t, tb.AddVehicle(v))
	}
	addVehicle(bev, "BEV", "S1", "D2", 100000)
	addVehicle(ice, "Diesel", "S1", "D1", 50000)
	addVehicle(future, "BEV", "S2", "D4", 200000)

	require.NoError(t, tb.AddFuel(model.Fuel{Name: "Electricity", EmissionFactor: 0, UnitCost: 0.2}))
	require.NoError(t, tb.AddFuel(model.Fuel{Name: "Diesel", EmissionFactor: 3, UnitCost: 1.5, CostUncertainty: 5}))

	require.NoError(t, tb.SetConsumption(bev, "Electricity", 1))
	require.NoError(t, tb.SetConsumption(ice, "Diesel", 0.1))
	require.NoError(t, tb.SetConsumption(future, "Electricity", 1.2))

	require.NoError(t, tb.SetDemand(model.DemandKey{Year: 2023, Size: "S1", Distance: "D1"}, 200000))
	require.NoError(t, tb.SetDemand(model.DemandKey{Year: 2024, Size: "S1", Distance: "D2"}, 100000))
	require.NoError(t, tb.SetDemand(model.DemandKey{Year: 2030, Size: "S2", Distance: "D4"}, 300000))

	for y := 2023; y <= 2025; y++ {
		tb.SetCarbonLimit(y, 1e6)
	}
	require.NoError(t, tb.SetCostProfile(2023, model.CostProfile{ResalePct: 90, InsurancePct: 1, MaintenancePct: 2}))
	return tb
}

func testConfig() Config {
	return Config{StartYear: 2023, NumYears: 3}
}
