package planner

// ActionType tells what a record does to a cohort.
type ActionType string

const (
	ActionUse  ActionType = "Use"
	ActionBuy  ActionType = "Buy"
	ActionSell ActionType = "Sell"
)

// Record is one row of a solved plan.
type Record struct {
	Year        int        `json:"year" yaml:"year"`
	ID          string     `json:"id" yaml:"id"`
	NumVehicles int        `json:"num_vehicles" yaml:"num_vehicles"`
	Type        ActionType `json:"type" yaml:"type"`
	// Fuel, DistanceBucket and DistancePerVehicle are blank on Buy and Sell rows.
	Fuel               string   `json:"fuel,omitempty" yaml:"fuel,omitempty"`
	DistanceBucket     string   `json:"distance_bucket,omitempty" yaml:"distance_bucket,omitempty"`
	DistancePerVehicle *float64 `json:"distance_per_vehicle_km,omitempty" yaml:"distance_per_vehicle_km,omitempty"`
}

// Idle reports whether r is the placeholder row of a (year, size, distance)
// combination without activity.
func (r Record) Idle() bool {
	return r.Type == ActionUse && r.ID == "" && r.NumVehicles == 0
}

func km(v float64) *float64 { return &v }
