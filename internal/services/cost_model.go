package services

import (
	"errors"
	"exypnos-finder/internal/domain"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Average UK petrol running cost, pounds per mile.
	PetrolCostPerMile = 0.15
	// CO2 avoided per mile driven electric, in grams.
	CO2GramsPerMile = 0.12
)

var ErrInvalidInput = errors.New("invalid input")

// Validated calculator form values.
type CostInput struct {
	Class            domain.VehicleClass
	AnnualMileage    float64
	ElectricityPence float64
}

// Annual running costs of an EV against a petrol equivalent.
// Values carry full precision; use Formatted for display.
type CostEstimate struct {
	TotalKwh         float64
	EVAnnualCost     float64
	PetrolAnnualCost float64
	AnnualSavings    float64
	CO2SavingsKg     float64
}

// Two-decimal display strings for a CostEstimate.
type FormattedEstimate struct {
	AnnualSavings    string `json:"annualSavings"`
	EVAnnualCost     string `json:"evAnnualCost"`
	PetrolAnnualCost string `json:"petrolAnnualCost"`
	CO2Savings       string `json:"co2Savings"`
	TotalKwh         string `json:"totalKwh"`
}

// Compute annual EV and petrol costs for the given vehicle class, annual
// mileage and electricity price in pence per kWh.
//
// Inputs are assumed validated (see ParseCostInput). Savings may be negative
// when electricity is dear enough; that is reported as-is.
func CalculateCosts(class domain.VehicleClass, annualMileage, electricityPence float64) CostEstimate {
	totalKwh := annualMileage / class.Efficiency()
	evCost := totalKwh * electricityPence / 100
	petrolCost := annualMileage * PetrolCostPerMile

	return CostEstimate{
		TotalKwh:         totalKwh,
		EVAnnualCost:     evCost,
		PetrolAnnualCost: petrolCost,
		AnnualSavings:    petrolCost - evCost,
		CO2SavingsKg:     annualMileage * CO2GramsPerMile / 1000,
	}
}

func (e CostEstimate) Formatted() FormattedEstimate {
	return FormattedEstimate{
		AnnualSavings:    fixed2(e.AnnualSavings),
		EVAnnualCost:     fixed2(e.EVAnnualCost),
		PetrolAnnualCost: fixed2(e.PetrolAnnualCost),
		CO2Savings:       fixed2(e.CO2SavingsKg),
		TotalKwh:         fixed2(e.TotalKwh),
	}
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseCostInput validates raw form values. Every failure wraps ErrInvalidInput.
//
// Mileage and price must be finite and non-negative numbers; the vehicle
// class must be one of the known classes.
func ParseCostInput(vehicle, mileage, price string) (CostInput, error) {
	class, err := domain.ParseVehicleClass(vehicle)
	if err != nil {
		return CostInput{}, fmt.Errorf("parse cost input: %w: %w", ErrInvalidInput, err)
	}

	m, err := parseAmount("annual mileage", mileage)
	if err != nil {
		return CostInput{}, err
	}

	p, err := parseAmount("electricity cost", price)
	if err != nil {
		return CostInput{}, err
	}

	return CostInput{Class: class, AnnualMileage: m, ElectricityPence: p}, nil
}

func parseAmount(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("parse cost input: %w: %s is required", ErrInvalidInput, field)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse cost input: %w: %s %q is not a number", ErrInvalidInput, field, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("parse cost input: %w: %s must not be negative", ErrInvalidInput, field)
	}

	return v, nil
}
