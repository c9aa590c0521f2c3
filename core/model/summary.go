package model

// YearSummary aggregates a solved plan for one year.
type YearSummary struct {
	Year        int     `json:"year" yaml:"year"`
	Bought      int     `json:"bought" yaml:"bought"`
	Sold        int     `json:"sold" yaml:"sold"`
	Fleet       int     `json:"fleet" yaml:"fleet"`
	InUse       int     `json:"in_use" yaml:"in_use"`
	DistanceKm  float64 `json:"distance_km" yaml:"distance_km"`
	EmissionsKg float64 `json:"emissions_kg" yaml:"emissions_kg"`
	CarbonLimit float64 `json:"carbon_limit_kg" yaml:"carbon_limit_kg"`
}
