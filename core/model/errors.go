package model

import (
	"errors"
	"fmt"
)

// Table names used in schema errors.
const (
	TableVehicles     = "vehicles"
	TableFuels        = "fuels"
	TableVehicleFuels = "vehicles_fuels"
	TableDemand       = "demand"
	TableCarbonLimits = "carbon_emissions"
	TableCostProfiles = "cost_profiles"
	TableDistance     = "distance_buckets"
)

// ErrSchema matches every *SchemaError with errors.Is.
var ErrSchema = errors.New("schema error")

// ErrMalformedCohortID matches every *MalformedCohortIDError with errors.Is.
var ErrMalformedCohortID = errors.New("malformed cohort id")

// SchemaError reports a key referenced by one table that is missing or
// invalid in another.
type SchemaError struct {
	Table  string
	Key    string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("schema: %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("schema: %s[%s]: %s", e.Table, e.Key, e.Reason)
}

// Is makes errors.Is(err, ErrSchema) true for schema errors.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// MalformedCohortIDError is returned when a vehicle id has no trailing year.
type MalformedCohortIDError struct {
	ID  string
	Err error
}

func (e *MalformedCohortIDError) Error() string {
	return fmt.Sprintf("vehicle id %q: missing trailing purchase year", e.ID)
}

func (e *MalformedCohortIDError) Unwrap() error { return e.Err }

func (e *MalformedCohortIDError) Is(target error) bool { return target == ErrMalformedCohortID }
