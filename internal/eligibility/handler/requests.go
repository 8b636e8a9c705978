package handler

import (
	"fmt"
	"strings"

	"donorcheck/internal/eligibility"
	dErrors "donorcheck/pkg/domain-errors"
)

// DonorRequest is the HTTP request body for POST /predict and one element of
// a batch. Pointer fields distinguish an omitted value from a zero value.
type DonorRequest struct {
	MonthsSinceLast        *int     `json:"months_since_last"`
	TotalDonations         *int     `json:"total_donations"`
	Age                    *int     `json:"age"`
	HemoglobinLevel        *float64 `json:"hemoglobin_level"`
	Weight                 *float64 `json:"weight"`
	Height                 *float64 `json:"height"`
	HasChronicDisease      *bool    `json:"has_chronic_disease"`
	OnMedication           *bool    `json:"on_medication"`
	IsSmoker               *bool    `json:"is_smoker"`
	IsAlcoholic            *bool    `json:"is_alcoholic"`
	FitnessLevel           *string  `json:"fitness_level"`
	Gender                 *string  `json:"gender"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
}

// Validate reports every missing required field at once.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *DonorRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if missing := r.missingFields(); len(missing) > 0 {
		return invalid("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func (r *DonorRequest) missingFields() []string {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("months_since_last", r.MonthsSinceLast != nil)
	check("total_donations", r.TotalDonations != nil)
	check("age", r.Age != nil)
	check("hemoglobin_level", r.HemoglobinLevel != nil)
	check("weight", r.Weight != nil)
	check("height", r.Height != nil)
	check("has_chronic_disease", r.HasChronicDisease != nil)
	check("on_medication", r.OnMedication != nil)
	check("is_smoker", r.IsSmoker != nil)
	check("is_alcoholic", r.IsAlcoholic != nil)
	check("fitness_level", r.FitnessLevel != nil)
	check("gender", r.Gender != nil)
	return missing
}

// ToRecord converts a validated request. Call Validate first.
func (r *DonorRequest) ToRecord() eligibility.DonorRecord {
	return eligibility.DonorRecord{
		MonthsSinceLast:        *r.MonthsSinceLast,
		TotalDonations:         *r.TotalDonations,
		Age:                    *r.Age,
		HemoglobinLevel:        *r.HemoglobinLevel,
		Weight:                 *r.Weight,
		Height:                 *r.Height,
		HasChronicDisease:      *r.HasChronicDisease,
		OnMedication:           *r.OnMedication,
		IsSmoker:               *r.IsSmoker,
		IsAlcoholic:            *r.IsAlcoholic,
		FitnessLevel:           *r.FitnessLevel,
		Gender:                 *r.Gender,
		BloodPressureSystolic:  r.BloodPressureSystolic,
		BloodPressureDiastolic: r.BloodPressureDiastolic,
	}
}

// BatchRequest is the HTTP request body for POST /predict-batch.
type BatchRequest struct {
	Donors []DonorRequest `json:"donors"`

	records []eligibility.DonorRecord
}

// Validate checks every donor and converts them to records.
func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Donors == nil {
		return invalid("missing required fields: donors")
	}
	r.records = make([]eligibility.DonorRecord, len(r.Donors))
	for i := range r.Donors {
		if missing := r.Donors[i].missingFields(); len(missing) > 0 {
			return invalid(fmt.Sprintf("donors[%d]: missing required fields: %s", i, strings.Join(missing, ", ")))
		}
		r.records[i] = r.Donors[i].ToRecord()
	}
	return nil
}

// Records returns the converted donors.
func (r *BatchRequest) Records() []eligibility.DonorRecord {
	return r.records
}

func invalid(msg string) error {
	return dErrors.Wrap(eligibility.ErrInvalidInput, dErrors.CodeValidation, msg)
}
