package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"

	"donorcheck/internal/eligibility/category"
	"donorcheck/internal/eligibility/classifier"
	"donorcheck/internal/eligibility/features"
	"donorcheck/internal/eligibility/scaler"
)

// ManifestFile is the entry point of an artifacts directory.
const ManifestFile = "manifest.yaml"

// Manifest describes an artifacts directory. File references are relative to
// the manifest.
type Manifest struct {
	Version        string              `yaml:"version"`
	FeatureColumns []string            `yaml:"feature_columns"`
	Encoders       map[string][]string `yaml:"encoders"`
	Scaler         string              `yaml:"scaler"`
	Model          string              `yaml:"model"`
}

type scalerFile struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Load reads the artifacts directory at dir.
func Load(ctx context.Context, dir string) (*Bundle, error) {
	return LoadFS(ctx, os.DirFS(dir))
}

// LoadFS reads artifacts from fsys, whose root holds the manifest.
func LoadFS(ctx context.Context, fsys fs.FS) (*Bundle, error) {
	_, span := otel.Tracer("donorcheck/artifacts").Start(ctx, "artifacts.Load")
	defer span.End()

	b, err := load(fsys)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "artifact load failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.String("model.version", b.Version()),
		attribute.String("model.type", b.Model().Type()),
		attribute.Int("model.features", b.Schema().Len()),
	)
	return b, nil
}

// ReadManifest parses the manifest at the root of fsys.
func ReadManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("artifacts: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("artifacts: parse manifest: %w", err)
	}
	if m.Scaler == "" || m.Model == "" {
		return nil, fmt.Errorf("artifacts: manifest must reference scaler and model files")
	}
	return &m, nil
}

func load(fsys fs.FS) (*Bundle, error) {
	m, err := ReadManifest(fsys)
	if err != nil {
		return nil, err
	}

	schema, err := features.NewSchema(m.FeatureColumns)
	if err != nil {
		return nil, fmt.Errorf("artifacts: %w", err)
	}

	encodings := make([]*category.Encoding, 0, len(category.Kinds))
	for _, kind := range category.Kinds {
		enc, err := category.NewEncoding(kind, m.Encoders[string(kind)])
		if err != nil {
			return nil, fmt.Errorf("artifacts: %w", err)
		}
		encodings = append(encodings, enc)
	}
	encoders, err := category.NewEncoders(encodings...)
	if err != nil {
		return nil, fmt.Errorf("artifacts: %w", err)
	}

	var sf scalerFile
	if err := readJSON(fsys, m.Scaler, &sf); err != nil {
		return nil, err
	}
	tr, err := scaler.New(sf.Mean, sf.Scale)
	if err != nil {
		return nil, fmt.Errorf("artifacts: %w", err)
	}

	modelData, err := fs.ReadFile(fsys, path.Clean(m.Model))
	if err != nil {
		return nil, fmt.Errorf("artifacts: read model: %w", err)
	}
	model, err := classifier.Decode(modelData)
	if err != nil {
		return nil, fmt.Errorf("artifacts: %w", err)
	}

	return NewBundle(m.Version, schema, encoders, tr, model)
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, path.Clean(name))
	if err != nil {
		return fmt.Errorf("artifacts: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("artifacts: decode %s: %w", name, err)
	}
	return nil
}
