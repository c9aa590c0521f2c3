package model

import (
	"fmt"
	"sort"
)

// Fuel describes a fuel type and its cost and emission characteristics.
type Fuel struct {
	Name            string  `json:"fuel" validate:"required"`
	EmissionFactor  float64 `json:"emission_factor" validate:"gte=0"`
	UnitCost        float64 `json:"unit_cost" validate:"gte=0"`
	CostUncertainty float64 `json:"cost_uncertainty" validate:"gte=0"`
}

// VehicleFuel keys the compatibility table.
type VehicleFuel struct {
	VehicleID string
	Fuel      string
}

// DemandKey identifies a transport requirement.
type DemandKey struct {
	Year     int
	Size     string
	Distance string
}

// CostProfile holds yearly cost percentages of a vehicle's purchase cost.
type CostProfile struct {
	ResalePct      float64 `json:"resale_pct"`
	InsurancePct   float64 `json:"insurance_pct" validate:"gte=0"`
	MaintenancePct float64 `json:"maintenance_pct" validate:"gte=0"`
}

// Tables holds the normalized input records. The maps are read-only once a
// model has been built from them.
type Tables struct {
	Vehicles     map[string]Vehicle
	Fuels        map[string]Fuel
	Consumption  map[VehicleFuel]float64
	Demand       map[DemandKey]float64
	CarbonLimits map[int]float64
	CostProfiles map[int]CostProfile
}

// NewTables returns empty tables ready to be filled.
func NewTables() *Tables {
	return &Tables{
		Vehicles:     make(map[string]Vehicle),
		Fuels:        make(map[string]Fuel),
		Consumption:  make(map[VehicleFuel]float64),
		Demand:       make(map[DemandKey]float64),
		CarbonLimits: make(map[int]float64),
		CostProfiles: make(map[int]CostProfile),
	}
}

// AddVehicle inserts a cohort. Duplicate ids are rejected.
func (t *Tables) AddVehicle(v Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if _, ok := t.Vehicles[v.ID]; ok {
		return &SchemaError{Table: TableVehicles, Key: v.ID, Reason: "duplicate id"}
	}
	t.Vehicles[v.ID] = v
	return nil
}

// AddFuel inserts a fuel type.
func (t *Tables) AddFuel(f Fuel) error {
	if err := validateStruct(f); err != nil {
		return &SchemaError{Table: TableFuels, Key: f.Name, Reason: err.Error()}
	}
	if _, ok := t.Fuels[f.Name]; ok {
		return &SchemaError{Table: TableFuels, Key: f.Name, Reason: "duplicate fuel"}
	}
	t.Fuels[f.Name] = f
	return nil
}

// SetConsumption records that vehicle can run on fuel at perKm units per km.
func (t *Tables) SetConsumption(vehicleID, fuel string, perKm float64) error {
	if perKm < 0 {
		return &SchemaError{Table: TableVehicleFuels, Key: vehicleID + "/" + fuel, Reason: "negative consumption"}
	}
	t.Consumption[VehicleFuel{VehicleID: vehicleID, Fuel: fuel}] = perKm
	return nil
}

// SetDemand records the kilometres required for a (year, size, distance).
func (t *Tables) SetDemand(k DemandKey, km float64) error {
	if km < 0 {
		return &SchemaError{Table: TableDemand, Key: k.String(), Reason: "negative demand"}
	}
	t.Demand[k] = km
	return nil
}

// SetCarbonLimit records the emission budget of a year in kg.
func (t *Tables) SetCarbonLimit(year int, kg float64) {
	t.CarbonLimits[year] = kg
}

// SetCostProfile records the cost percentages of a year.
func (t *Tables) SetCostProfile(year int, p CostProfile) error {
	if err := validateStruct(p); err != nil {
		return &SchemaError{Table: TableCostProfiles, Key: fmt.Sprint(year), Reason: err.Error()}
	}
	t.CostProfiles[year] = p
	return nil
}

// ConsumptionOf returns the consumption per km and whether the pair is compatible.
func (t *Tables) ConsumptionOf(vehicleID, fuel string) (float64, bool) {
	c, ok := t.Consumption[VehicleFuel{VehicleID: vehicleID, Fuel: fuel}]
	return c, ok
}

// VehicleIDs returns all cohort ids in ascending order.
func (t *Tables) VehicleIDs() []string {
	ids := make([]string, 0, len(t.Vehicles))
	for id := range t.Vehicles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FuelNames returns all fuel names in ascending order.
func (t *Tables) FuelNames() []string {
	names := make([]string, 0, len(t.Fuels))
	for n := range t.Fuels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SizeBuckets returns the distinct size buckets of all vehicles, sorted.
func (t *Tables) SizeBuckets() []string {
	seen := make(map[string]struct{})
	for _, v := range t.Vehicles {
		seen[v.SizeBucket] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// CompatibleFuels returns the fuels vehicleID can use, sorted by name.
// Only fuels present in the fuel table are returned.
func (t *Tables) CompatibleFuels(vehicleID string) []string {
	var out []string
	for _, f := range t.FuelNames() {
		if _, ok := t.ConsumptionOf(vehicleID, f); ok {
			out = append(out, f)
		}
	}
	return out
}

// DemandKeys returns the demand keys in (year, size, distance) order.
// Distance ordering follows the string value; callers needing the scale
// order should iterate the scale instead.
func (t *Tables) DemandKeys() []DemandKey {
	keys := make([]DemandKey, 0, len(t.Demand))
	for k := range t.Demand {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		return a.Distance < b.Distance
	})
	return keys
}

func (k DemandKey) String() string {
	return fmt.Sprintf("%d/%s/%s", k.Year, k.Size, k.Distance)
}
