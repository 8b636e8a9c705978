// Package features assembles the fixed-order numeric feature vector the
// scaler and classifier were fitted on.
package features

import (
	"fmt"
	"slices"
)

// Feature names known to the builder.
const (
	Age                    = "age"
	Weight                 = "weight"
	Height                 = "height"
	TotalDonations         = "total_donations"
	MonthsSinceLast        = "months_since_last"
	HemoglobinLevel        = "hemoglobin_level"
	BloodPressureSystolic  = "blood_pressure_systolic"
	BloodPressureDiastolic = "blood_pressure_diastolic"
	HasChronicDisease      = "has_chronic_disease"
	OnMedication           = "on_medication"
	IsSmoker               = "is_smoker"
	IsAlcoholic            = "is_alcoholic"
	FitnessLevelEncoded    = "fitness_level_encoded"
	GenderEncoded          = "gender_encoded"
)

// DefaultColumns is the column order the reference model is trained with.
// The order shipped with the artifacts always takes precedence.
var DefaultColumns = []string{
	Age, Weight, Height, TotalDonations, MonthsSinceLast,
	HemoglobinLevel, BloodPressureSystolic, BloodPressureDiastolic,
	HasChronicDisease, OnMedication, IsSmoker, IsAlcoholic,
	FitnessLevelEncoded, GenderEncoded,
}

// Vector is a feature vector in schema order.
type Vector []float64

// Schema is the ordered list of feature names fixed at training time.
type Schema struct {
	names []string
}

// NewSchema validates and freezes a column list.
func NewSchema(names []string) (Schema, error) {
	if len(names) == 0 {
		return Schema{}, fmt.Errorf("feature schema is empty")
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return Schema{}, fmt.Errorf("feature schema contains an empty name")
		}
		if _, dup := seen[n]; dup {
			return Schema{}, fmt.Errorf("feature schema repeats %q", n)
		}
		seen[n] = struct{}{}
	}
	return Schema{names: slices.Clone(names)}, nil
}

// Len is the vector dimensionality the schema implies.
func (s Schema) Len() int {
	return len(s.names)
}

// Names returns a copy of the column list.
func (s Schema) Names() []string {
	return slices.Clone(s.names)
}

// Index returns the position of name, or -1.
func (s Schema) Index(name string) int {
	return slices.Index(s.names, name)
}
