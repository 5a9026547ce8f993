package dto

// Raw calculator form values; numbers arrive as strings like HTML inputs.
type CalculatorRequest struct {
	VehicleType     string `json:"vehicle_type"`
	AnnualMileage   string `json:"annual_mileage"`
	ElectricityCost string `json:"electricity_cost"`
}

type CalculatorResponse struct {
	VehicleType      string `json:"vehicle_type"`
	AnnualSavings    string `json:"annualSavings"`
	EVAnnualCost     string `json:"evAnnualCost"`
	PetrolAnnualCost string `json:"petrolAnnualCost"`
	CO2Savings       string `json:"co2Savings"`
	TotalKwh         string `json:"totalKwh"`
}
