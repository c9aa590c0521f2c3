package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Vehicle is a cohort: a vehicle type bought in a single acquisition year.
// Units of a cohort are bought together and age together.
type Vehicle struct {
	ID             string  `json:"id" validate:"required"`
	Drivetrain     string  `json:"drivetrain"`
	SizeBucket     string  `json:"size_bucket" validate:"required"`
	DistanceBucket string  `json:"distance_bucket" validate:"required"`
	PurchaseCost   float64 `json:"purchase_cost" validate:"gte=0"`
	YearlyRange    float64 `json:"yearly_range_km" validate:"gt=0"`

	// PurchaseYear is parsed from the trailing "_YYYY" token of ID.
	PurchaseYear int `json:"purchase_year"`
}

// NewVehicle builds a cohort and derives its purchase year from the id.
func NewVehicle(id, drivetrain, size, distance string, cost, yearlyRange float64) (Vehicle, error) {
	year, err := ParseCohortYear(id)
	if err != nil {
		return Vehicle{}, err
	}
	v := Vehicle{
		ID:             id,
		Drivetrain:     drivetrain,
		SizeBucket:     size,
		DistanceBucket: distance,
		PurchaseCost:   cost,
		YearlyRange:    yearlyRange,
		PurchaseYear:   year,
	}
	if err := v.Validate(); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// ParseCohortYear extracts the acquisition year from ids such as
// "BEV_S1_2023". An id without underscore is read as a bare year.
func ParseCohortYear(id string) (int, error) {
	token := id[strings.LastIndex(id, "_")+1:]
	if token == "" {
		return 0, &MalformedCohortIDError{ID: id}
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, &MalformedCohortIDError{ID: id}
		}
	}
	year, err := strconv.Atoi(token)
	if err != nil || year <= 0 {
		return 0, &MalformedCohortIDError{ID: id, Err: err}
	}
	return year, nil
}

// Validate checks the field constraints declared on the struct.
func (v Vehicle) Validate() error {
	if err := validateStruct(v); err != nil {
		return &SchemaError{Table: TableVehicles, Key: v.ID, Reason: err.Error()}
	}
	return nil
}

// InUseWindow reports whether units of the cohort may operate in year.
// The window is [PurchaseYear, PurchaseYear+lifespan).
func (v Vehicle) InUseWindow(year, lifespan int) bool {
	return year >= v.PurchaseYear && year < v.PurchaseYear+lifespan
}

func (v Vehicle) String() string {
	return fmt.Sprintf("%s(%s/%s)", v.ID, v.SizeBucket, v.DistanceBucket)
}
