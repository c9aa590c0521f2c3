package planner

import (
	"fmt"

	"github.com/kilianp07/fleetplan/core/solver"
)

// CohortYear keys the Buy and Sell variables.
type CohortYear struct {
	VehicleID string
	Year      int
}

// UseKey keys the Use variables.
type UseKey struct {
	VehicleID string
	Fuel      string
	Distance  string
	Year      int
}

// CohortYear returns the cohort/year part of the key.
func (k UseKey) CohortYear() CohortYear {
	return CohortYear{VehicleID: k.VehicleID, Year: k.Year}
}

func buyName(k CohortYear) string  { return fmt.Sprintf("buy_%s_%d", k.VehicleID, k.Year) }
func sellName(k CohortYear) string { return fmt.Sprintf("sell_%s_%d", k.VehicleID, k.Year) }
func useName(k UseKey) string {
	return fmt.Sprintf("use_%s_%s_%s_%d", k.VehicleID, k.Fuel, k.Distance, k.Year)
}

// Variables is the registry of decision variables created for one model.
// It is written only while the model is built.
type Variables struct {
	Buy  map[CohortYear]solver.Var
	Sell map[CohortYear]solver.Var
	Use  map[UseKey]solver.Var

	// uses keeps the Use keys of each cohort/year in creation order.
	uses map[CohortYear][]UseKey
}

func newVariables() *Variables {
	return &Variables{
		Buy:  make(map[CohortYear]solver.Var),
		Sell: make(map[CohortYear]solver.Var),
		Use:  make(map[UseKey]solver.Var),
		uses: make(map[CohortYear][]UseKey),
	}
}

func (v *Variables) addUse(k UseKey, h solver.Var) {
	v.Use[k] = h
	cy := k.CohortYear()
	v.uses[cy] = append(v.uses[cy], k)
}

// UsesOf returns the Use keys registered for a cohort in a year.
func (v *Variables) UsesOf(vehicleID string, year int) []UseKey {
	return v.uses[CohortYear{VehicleID: vehicleID, Year: year}]
}

// Len is the total number of registered variables.
func (v *Variables) Len() int {
	return len(v.Buy) + len(v.Sell) + len(v.Use)
}

// useTotal sums the Use variables of a cohort in a year.
func (v *Variables) useTotal(vehicleID string, year int) solver.Expr {
	e := solver.Expr{}
	for _, k := range v.UsesOf(vehicleID, year) {
		e.Add(v.Use[k], 1)
	}
	return e
}
