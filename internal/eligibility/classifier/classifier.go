package classifier

import (
	"encoding/json"
	"fmt"
	"sort"

	"donorcheck/internal/eligibility"
	"donorcheck/internal/eligibility/features"
)

// Classifier is a deterministic, stateless binary probabilistic model.
type Classifier interface {
	// PredictProbability returns the probability of the eligible class.
	PredictProbability(vec features.Vector) (float64, error)
	// NumFeatures is the input dimensionality the model was fitted on.
	NumFeatures() int
	// Type names the model family, e.g. "random_forest".
	Type() string
}

// Decoder builds a classifier from its serialized form.
type Decoder func(data []byte) (Classifier, error)

// Decoders maps artifact type names to decoders.
var Decoders = map[string]Decoder{
	TypeRandomForest: DecodeForest,
	TypeLogistic:     DecodeLogistic,
}

// Decode reads the artifact's "type" field and dispatches to its decoder.
func Decode(data []byte) (Classifier, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode model envelope: %w", err)
	}
	dec, ok := Decoders[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported model type %q (known: %v)", envelope.Type, knownTypes())
	}
	return dec(data)
}

func knownTypes() []string {
	types := make([]string, 0, len(Decoders))
	for t := range Decoders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func checkDim(want int, vec features.Vector) error {
	if len(vec) != want {
		return fmt.Errorf("%w: model expects %d features, got %d", eligibility.ErrSchemaMismatch, want, len(vec))
	}
	return nil
}
