package features

import (
	"fmt"

	"donorcheck/internal/eligibility"
	"donorcheck/internal/eligibility/category"
)

// Encoder is the categorical encoding capability the builder needs.
type Encoder interface {
	Encode(kind category.Kind, value string) (int, error)
}

// Builder turns donor records into vectors in schema order.
type Builder struct {
	schema   Schema
	encoders Encoder
}

func NewBuilder(schema Schema, encoders Encoder) *Builder {
	return &Builder{schema: schema, encoders: encoders}
}

func (b *Builder) Schema() Schema {
	return b.schema
}

// Build assembles the vector for record. With normalize set, category strings
// go through category.Normalize before encoding; otherwise they are encoded
// as given and must already be canonical.
func (b *Builder) Build(record eligibility.DonorRecord, normalize bool) (Vector, error) {
	fitness, gender := record.FitnessLevel, record.Gender
	if normalize {
		fitness = category.Normalize(category.KindFitnessLevel, fitness)
		gender = category.Normalize(category.KindGender, gender)
	}

	vec := make(Vector, b.schema.Len())
	for i, name := range b.schema.names {
		v, err := b.value(name, record, fitness, gender)
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}
	return vec, nil
}

func (b *Builder) value(name string, r eligibility.DonorRecord, fitness, gender string) (float64, error) {
	switch name {
	case Age:
		return float64(r.Age), nil
	case Weight:
		return r.Weight, nil
	case Height:
		return r.Height, nil
	case TotalDonations:
		return float64(r.TotalDonations), nil
	case MonthsSinceLast:
		return float64(r.MonthsSinceLast), nil
	case HemoglobinLevel:
		return r.HemoglobinLevel, nil
	case BloodPressureSystolic:
		return float64(r.Systolic()), nil
	case BloodPressureDiastolic:
		return float64(r.Diastolic()), nil
	case HasChronicDisease:
		return boolToFloat(r.HasChronicDisease), nil
	case OnMedication:
		return boolToFloat(r.OnMedication), nil
	case IsSmoker:
		return boolToFloat(r.IsSmoker), nil
	case IsAlcoholic:
		return boolToFloat(r.IsAlcoholic), nil
	case FitnessLevelEncoded:
		return b.encode(category.KindFitnessLevel, fitness)
	case GenderEncoded:
		return b.encode(category.KindGender, gender)
	default:
		return 0, fmt.Errorf("%w: record provides no value for %q", eligibility.ErrUnknownFeature, name)
	}
}

func (b *Builder) encode(kind category.Kind, value string) (float64, error) {
	code, err := b.encoders.Encode(kind, value)
	if err != nil {
		return 0, err
	}
	return float64(code), nil
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
