package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/fleetplan/core/model"
)

var fixture = map[string]string{
	model.TableVehicles: "\ufeffID,Vehicle,Size,Distance,Cost ($),Yearly range (km)\n" +
		"BEV_S1_2023,BEV,S1,D1,187000,102000\n" +
		"Diesel_S1_2024,Diesel,S1,D4,85000,102000\n",
	model.TableFuels: "Fuel,Emissions (CO2/unit_fuel),Cost ($/unit_fuel),Cost Uncertainty (Â±%)\n" +
		"Electricity,0,0.28,5%\n" +
		"B20,2.8,1.4,\n",
	model.TableVehicleFuels: "ID,Fuel,Consumption (unit_fuel/km)\n" +
		"BEV_S1_2023,Electricity,1.2\n" +
		"Diesel_S1_2024,B20,0.08\n",
	model.TableDemand: "Year,Size,Distance,Demand (km)\n" +
		"2023,S1,D1,\"869,181\"\n" +
		"2024.0,S1,D4,50000\n" +
		",,,\n",
	model.TableCarbonLimits: "Year,Carbon emission CO2/kg\n" +
		"2023,11677957\n" +
		"2024,10510161\n",
	model.TableCostProfiles: "End of Year,Resale Value %,Insurance Cost %,Maintenance Cost %\n" +
		"1,90,5,1\n",
}

func writeCSVs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(body), 0o644))
	}
	return dir
}

func assertFixture(t *testing.T, tb *model.Tables) {
	t.Helper()
	require.Len(t, tb.Vehicles, 2)
	v := tb.Vehicles["BEV_S1_2023"]
	assert.Equal(t, 2023, v.PurchaseYear)
	assert.Equal(t, "BEV", v.Drivetrain)
	assert.Equal(t, "D1", v.DistanceBucket)
	assert.Equal(t, 187000.0, v.PurchaseCost)
	assert.Equal(t, 102000.0, v.YearlyRange)

	assert.Equal(t, 5.0, tb.Fuels["Electricity"].CostUncertainty)
	assert.Equal(t, 2.8, tb.Fuels["B20"].EmissionFactor)
	assert.Equal(t, 1.4, tb.Fuels["B20"].UnitCost)

	c, ok := tb.ConsumptionOf("Diesel_S1_2024", "B20")
	require.True(t, ok)
	assert.Equal(t, 0.08, c)

	assert.Equal(t, 869181.0, tb.Demand[model.DemandKey{Year: 2023, Size: "S1", Distance: "D1"}])
	assert.Equal(t, 50000.0, tb.Demand[model.DemandKey{Year: 2024, Size: "S1", Distance: "D4"}])
	assert.Len(t, tb.Demand, 2)
	assert.Equal(t, 10510161.0, tb.CarbonLimits[2024])
	assert.Equal(t, model.CostProfile{ResalePct: 90, InsurancePct: 5, MaintenancePct: 1}, tb.CostProfiles[1])
}

func TestCSVLoader_Load(t *testing.T) {
	dir := writeCSVs(t, fixture)
	l, err := New(Config{Path: dir}, nil)
	require.NoError(t, err)
	_, ok := l.(*CSVLoader)
	require.True(t, ok)

	tb, err := l.Load(context.Background())
	require.NoError(t, err)
	assertFixture(t, tb)
}

func TestCSVLoader_OptionalCostProfiles(t *testing.T) {
	files := make(map[string]string)
	for k, v := range fixture {
		files[k] = v
	}
	delete(files, model.TableCostProfiles)
	tb, err := NewCSVLoader(writeCSVs(t, files), nil).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tb.CostProfiles)
}

func TestCSVLoader_Errors(t *testing.T) {
	t.Run("missing table", func(t *testing.T) {
		files := map[string]string{model.TableVehicles: fixture[model.TableVehicles]}
		_, err := NewCSVLoader(writeCSVs(t, files), nil).Load(context.Background())
		var se *model.SchemaError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, model.TableFuels, se.Table)
	})
	t.Run("malformed cohort id", func(t *testing.T) {
		files := make(map[string]string)
		for k, v := range fixture {
			files[k] = v
		}
		files[model.TableVehicles] = "ID,Vehicle,Size,Distance,Cost ($),Yearly range (km)\nBEV_S1,BEV,S1,D1,1,1\n"
		_, err := NewCSVLoader(writeCSVs(t, files), nil).Load(context.Background())
		assert.True(t, errors.Is(err, model.ErrMalformedCohortID))
		assert.Contains(t, err.Error(), "line 2")
	})
	t.Run("bad number", func(t *testing.T) {
		files := make(map[string]string)
		for k, v := range fixture {
			files[k] = v
		}
		files[model.TableCarbonLimits] = "Year,Carbon emission CO2/kg\n2023,lots\n"
		_, err := NewCSVLoader(writeCSVs(t, files), nil).Load(context.Background())
		assert.True(t, errors.Is(err, model.ErrSchema))
	})
	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewCSVLoader(writeCSVs(t, fixture), nil).Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestXLSXLoader_Load(t *testing.T) {
	f := excelize.NewFile()
	for _, spec := range tableSpecs {
		rows := csvRows(t, fixture[spec.name])
		_, err := f.NewSheet(spec.name)
		require.NoError(t, err)
		for i, r := range rows {
			cells := make([]any, len(r))
			for j, c := range r {
				cells[j] = c
			}
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(spec.name, cell, &cells))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	path := filepath.Join(t.TempDir(), "tables.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	l, err := New(Config{Path: path}, nil)
	require.NoError(t, err)
	_, ok := l.(*XLSXLoader)
	require.True(t, ok, "format inferred from the extension")

	tb, err := l.Load(context.Background())
	require.NoError(t, err)
	assertFixture(t, tb)
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Path: "x", Format: "parquet"}.Validate())
	_, err := New(Config{Path: "x", Format: "parquet"}, nil)
	assert.Error(t, err)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "cost uncertainty", normalizeHeader("Cost Uncertainty (Â±%)"))
	assert.Equal(t, "id", normalizeHeader("\ufeffID"))
	assert.Equal(t, "resale value %", normalizeHeader(" Resale Value % "))
}
