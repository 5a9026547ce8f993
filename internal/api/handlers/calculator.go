package handlers

import (
	"encoding/json"
	"exypnos-finder/internal/api/dto"
	"exypnos-finder/internal/services"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// CalculatorHandler serves the EV vs petrol cost comparison.
type CalculatorHandler struct{}

// Calculate accepts either a JSON body or an urlencoded form post with the
// calculator fields. Invalid input aborts with a blocking notice and no
// partial result.
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCalculatorRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	in, err := services.ParseCostInput(req.VehicleType, req.AnnualMileage, req.ElectricityCost)
	if err != nil {
		writeNotice(w, r, http.StatusBadRequest, err)
		return
	}

	f := services.CalculateCosts(in.Class, in.AnnualMileage, in.ElectricityPence).Formatted()

	writeJSON(w, r, http.StatusOK, dto.CalculatorResponse{
		VehicleType:      string(in.Class),
		AnnualSavings:    f.AnnualSavings,
		EVAnnualCost:     f.EVAnnualCost,
		PetrolAnnualCost: f.PetrolAnnualCost,
		CO2Savings:       f.CO2Savings,
		TotalKwh:         f.TotalKwh,
	})
}

func decodeCalculatorRequest(r *http.Request) (dto.CalculatorRequest, error) {
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		return dto.CalculatorRequest{
			VehicleType:     r.PostFormValue("vehicle_type"),
			AnnualMileage:   r.PostFormValue("annual_mileage"),
			ElectricityCost: r.PostFormValue("electricity_cost"),
		}, nil
	}

	var req dto.CalculatorRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return dto.CalculatorRequest{}, fmt.Errorf("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return dto.CalculatorRequest{}, fmt.Errorf("body must contain only one JSON object")
	}

	return req, nil
}
