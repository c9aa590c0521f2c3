package planner

import (
	"fmt"

	"github.com/kilianp07/fleetplan/core/model"
)

// Planning defaults.
const (
	DefaultStartYear     = 2023
	DefaultNumYears      = 16
	DefaultLifespanYears = 10
	DefaultTurnoverCap   = 0.2
)

// Config defines the planning horizon and fleet policy parameters.
type Config struct {
	StartYear int `json:"start_year"`
	NumYears  int `json:"num_years"`
	// DistanceBuckets lists the distance scale, shortest first.
	DistanceBuckets []string `json:"distance_buckets"`
	// LifespanYears bounds both the usage window and the disposal window.
	LifespanYears int `json:"lifespan_years"`
	// TurnoverCap is the fraction of the fleet that may be sold in a year.
	TurnoverCap float64 `json:"turnover_cap"`
}

// SetDefaults fills zero fields with the planning defaults.
func (c *Config) SetDefaults() {
	if c.StartYear == 0 {
		c.StartYear = DefaultStartYear
	}
	if c.NumYears == 0 {
		c.NumYears = DefaultNumYears
	}
	if len(c.DistanceBuckets) == 0 {
		c.DistanceBuckets = append([]string(nil), model.DefaultDistanceBuckets...)
	}
	if c.LifespanYears == 0 {
		c.LifespanYears = DefaultLifespanYears
	}
	if c.TurnoverCap == 0 {
		c.TurnoverCap = DefaultTurnoverCap
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if c.NumYears <= 0 {
		return fmt.Errorf("num_years must be positive")
	}
	if c.LifespanYears <= 0 {
		return fmt.Errorf("lifespan_years must be positive")
	}
	if c.TurnoverCap < 0 || c.TurnoverCap > 1 {
		return fmt.Errorf("turnover_cap must be within [0,1], got %v", c.TurnoverCap)
	}
	if _, err := model.NewDistanceScale(c.DistanceBuckets...); err != nil {
		return err
	}
	return nil
}

// Horizon returns the planning years.
func (c Config) Horizon() Horizon {
	return NewHorizon(c.StartYear, c.NumYears)
}

// Scale returns the configured distance scale.
func (c Config) Scale() (model.DistanceScale, error) {
	return model.NewDistanceScale(c.DistanceBuckets...)
}

// Horizon is a contiguous, ordered range of planning years.
type Horizon struct {
	start int
	n     int
}

// NewHorizon returns the years start .. start+n-1.
func NewHorizon(start, n int) Horizon {
	if n < 0 {
		n = 0
	}
	return Horizon{start: start, n: n}
}

// Years returns the planning years in ascending order.
func (h Horizon) Years() []int {
	out := make([]int, h.n)
	for i := range out {
		out[i] = h.start + i
	}
	return out
}

// Contains reports whether year is a planning year.
func (h Horizon) Contains(year int) bool {
	return h.n > 0 && year >= h.start && year < h.start+h.n
}

// Start is the first planning year.
func (h Horizon) Start() int { return h.start }

// End is the last planning year.
func (h Horizon) End() int { return h.start + h.n - 1 }

// Len is the number of planning years.
func (h Horizon) Len() int { return h.n }
