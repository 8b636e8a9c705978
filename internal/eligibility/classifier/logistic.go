package classifier

import (
	"encoding/json"
	"fmt"
	"math"

	"donorcheck/internal/eligibility/features"
)

const TypeLogistic = "logistic"

// Logistic is a linear model squashed through the sigmoid.
type Logistic struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// DecodeLogistic parses a logistic model artifact.
func DecodeLogistic(data []byte) (Classifier, error) {
	var m Logistic
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode logistic model: %w", err)
	}
	if len(m.Coef) == 0 {
		return nil, fmt.Errorf("logistic model: no coefficients")
	}
	return &m, nil
}

func (m *Logistic) PredictProbability(vec features.Vector) (float64, error) {
	if err := checkDim(len(m.Coef), vec); err != nil {
		return 0, err
	}
	z := m.Intercept
	for i, c := range m.Coef {
		z += c * vec[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

func (m *Logistic) NumFeatures() int {
	return len(m.Coef)
}

func (m *Logistic) Type() string {
	return TypeLogistic
}
