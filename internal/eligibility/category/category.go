// Package category normalizes free-form category strings to their canonical
// form and encodes canonical strings with the label encodings persisted at
// training time.
package category

import (
	"strings"
)

// Kind names a categorical donor attribute.
type Kind string

const (
	KindFitnessLevel Kind = "fitness_level"
	KindGender       Kind = "gender"
)

// Kinds lists every categorical attribute the pipeline encodes.
var Kinds = []Kind{KindFitnessLevel, KindGender}

// Canonical category values.
const (
	FitnessLow    = "LOW"
	FitnessMedium = "MEDIUM"
	FitnessHigh   = "HIGH"
	GenderMale    = "MALE"
	GenderFemale  = "FEMALE"
)

// Policy is the normalization table entry for one kind: the accepted
// canonical values and the value unrecognized input falls back to.
type Policy struct {
	Values  []string
	Default string
}

// Policies is the normalization table.
//
//	kind           values               default
//	fitness_level  LOW, MEDIUM, HIGH    MEDIUM
//	gender         MALE, FEMALE         MALE
var Policies = map[Kind]Policy{
	KindFitnessLevel: {Values: []string{FitnessLow, FitnessMedium, FitnessHigh}, Default: FitnessMedium},
	KindGender:       {Values: []string{GenderMale, GenderFemale}, Default: GenderMale},
}

// Normalize maps raw input to a canonical value of kind, case-insensitively.
// Unrecognized input resolves to the kind's default; an unknown kind returns
// raw unchanged.
func Normalize(kind Kind, raw string) string {
	policy, ok := Policies[kind]
	if !ok {
		return raw
	}
	candidate := strings.TrimSpace(raw)
	for _, v := range policy.Values {
		if strings.EqualFold(candidate, v) {
			return v
		}
	}
	return policy.Default
}
