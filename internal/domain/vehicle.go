package domain

import (
	"fmt"
	"strings"
)

// Size category of an electric vehicle.
type VehicleClass string

const (
	VehicleSmall  VehicleClass = "small"
	VehicleMedium VehicleClass = "medium"
	VehicleLarge  VehicleClass = "large"
)

// Miles per kWh for each class.
var efficiencies = map[VehicleClass]float64{
	VehicleSmall:  4.0,
	VehicleMedium: 3.5,
	VehicleLarge:  2.8,
}

// VehicleClasses lists the supported classes in display order.
func VehicleClasses() []VehicleClass {
	return []VehicleClass{VehicleSmall, VehicleMedium, VehicleLarge}
}

// ParseVehicleClass maps a form value onto a known class.
func ParseVehicleClass(s string) (VehicleClass, error) {
	c := VehicleClass(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := efficiencies[c]; !ok {
		return "", fmt.Errorf("parse vehicle class: unknown class %q", s)
	}
	return c, nil
}

// Efficiency returns miles travelled per kWh. Unknown classes return 0.
func (c VehicleClass) Efficiency() float64 {
	return efficiencies[c]
}
