// Package artifactstest provides the reference serving artifacts for tests.
//
// The reference forest scores ReferenceRecord at exactly 0.8.
package artifactstest

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"donorcheck/internal/eligibility"
	"donorcheck/internal/eligibility/artifacts"
)

//go:embed testdata/valid
var files embed.FS

// ReferenceProbability is the reference model's score for ReferenceRecord.
const ReferenceProbability = 0.8

// FS returns the reference artifacts directory.
func FS() fs.FS {
	sub, err := fs.Sub(files, "testdata/valid")
	if err != nil {
		panic(err)
	}
	return sub
}

// WithFiles returns the reference artifacts with the named files replaced or
// added.
func WithFiles(t testing.TB, files map[string]string) fs.FS {
	t.Helper()
	m := fstest.MapFS{}
	err := fs.WalkDir(FS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(FS(), p)
		if err != nil {
			return err
		}
		m[p] = &fstest.MapFile{Data: data}
		return nil
	})
	require.NoError(t, err)
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

// LogisticBundle loads an unversioned bundle whose model is a logistic
// regression with zero coefficients, so every record scores
// sigmoid(intercept).
func LogisticBundle(t testing.TB, intercept float64) *artifacts.Bundle {
	t.Helper()
	manifest, err := fs.ReadFile(FS(), artifacts.ManifestFile)
	require.NoError(t, err)
	unversioned := strings.Replace(string(manifest), "version: rf-reference-1", `version: ""`, 1)
	model := fmt.Sprintf(`{"type": "logistic", "coef": [0,0,0,0,0,0,0,0,0,0,0,0,0,0], "intercept": %g}`, intercept)

	b, err := artifacts.LoadFS(context.Background(), WithFiles(t, map[string]string{
		artifacts.ManifestFile: unversioned,
		"model.json":           model,
	}))
	require.NoError(t, err)
	return b
}

// Bundle loads the reference artifacts.
func Bundle(t testing.TB) *artifacts.Bundle {
	t.Helper()
	b, err := artifacts.LoadFS(context.Background(), FS())
	require.NoError(t, err)
	return b
}

// ReferenceRecord is a healthy 30 year old male donor.
func ReferenceRecord() eligibility.DonorRecord {
	return eligibility.DonorRecord{
		MonthsSinceLast: 6,
		TotalDonations:  2,
		Age:             30,
		HemoglobinLevel: 14.0,
		Weight:          70,
		Height:          175,
		FitnessLevel:    "MEDIUM",
		Gender:          "MALE",
	}
}

// IneligibleRecord has a chronic disease and low hemoglobin.
func IneligibleRecord() eligibility.DonorRecord {
	r := ReferenceRecord()
	r.HasChronicDisease = true
	r.OnMedication = true
	r.HemoglobinLevel = 11.0
	r.MonthsSinceLast = 1
	return r
}
