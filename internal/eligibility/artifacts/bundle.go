package artifacts

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"math"

	"donorcheck/internal/eligibility"
	"donorcheck/internal/eligibility/category"
	"donorcheck/internal/eligibility/classifier"
	"donorcheck/internal/eligibility/features"
	"donorcheck/internal/eligibility/scaler"
)

// Bundle is the read-only state shared by every inference call. It is safe
// for concurrent use.
type Bundle struct {
	version  string
	schema   features.Schema
	encoders *category.Encoders
	builder  *features.Builder
	scaler   *scaler.Transform
	model    classifier.Classifier

	fingerprint string
}

// NewBundle checks that schema, scaler and model agree on dimensionality.
func NewBundle(version string, schema features.Schema, encoders *category.Encoders, tr *scaler.Transform, model classifier.Classifier) (*Bundle, error) {
	if encoders == nil || tr == nil || model == nil {
		return nil, fmt.Errorf("artifacts: encoders, scaler and model are required")
	}
	if tr.Dim() != schema.Len() {
		return nil, fmt.Errorf("%w: schema has %d features, scaler was fitted on %d",
			eligibility.ErrSchemaMismatch, schema.Len(), tr.Dim())
	}
	if model.NumFeatures() != schema.Len() {
		return nil, fmt.Errorf("%w: schema has %d features, model was fitted on %d",
			eligibility.ErrSchemaMismatch, schema.Len(), model.NumFeatures())
	}
	fingerprint, err := fingerprintOf(version, schema, encoders, tr, model)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		version:     version,
		schema:      schema,
		encoders:    encoders,
		builder:     features.NewBuilder(schema, encoders),
		scaler:      tr,
		model:       model,
		fingerprint: fingerprint,
	}, nil
}

// fingerprintOf hashes everything that influences a score, so bundles built
// from different artifacts never share a fingerprint.
func fingerprintOf(version string, schema features.Schema, encoders *category.Encoders, tr *scaler.Transform, model classifier.Classifier) (string, error) {
	h := sha256.New()
	writeString(h, version)
	for _, name := range schema.Names() {
		writeString(h, name)
	}
	for _, kind := range category.Kinds {
		writeString(h, string(kind))
		for _, class := range encoders.Encoding(kind).Classes() {
			writeString(h, class)
		}
	}
	mean, scale := tr.Params()
	writeFloats(h, mean)
	writeFloats(h, scale)

	writeString(h, model.Type())
	params, err := json.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("artifacts: fingerprint model: %w", err)
	}
	h.Write(params)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// writeString length-prefixes s so adjacent fields cannot run together.
func writeString(h hash.Hash, s string) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}

func writeFloats(h hash.Hash, vs []float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(vs)))
	h.Write(buf[:])
	for _, v := range vs {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
}

func (b *Bundle) Version() string {
	return b.version
}

// Fingerprint identifies the bundle's content. Unlike Version, which is a
// free-form manifest label, it changes whenever any artifact changes.
func (b *Bundle) Fingerprint() string {
	return b.fingerprint
}

func (b *Bundle) Schema() features.Schema {
	return b.schema
}

func (b *Bundle) Encoders() *category.Encoders {
	return b.encoders
}

func (b *Bundle) Model() classifier.Classifier {
	return b.model
}

// Prepare builds and scales the feature vector for record.
func (b *Bundle) Prepare(record eligibility.DonorRecord, normalize bool) (features.Vector, error) {
	raw, err := b.builder.Build(record, normalize)
	if err != nil {
		return nil, err
	}
	return b.scaler.Scale(raw)
}

// Score returns the eligible-class probability of a scaled vector.
func (b *Bundle) Score(scaled features.Vector) (float64, error) {
	return b.model.PredictProbability(scaled)
}
