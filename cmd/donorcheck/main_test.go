package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorcheck/internal/eligibility"
	"donorcheck/internal/eligibility/handler"
)

// The repository ships the reference artifacts at the module root.
var artifactsDir = filepath.Join("..", "..", "artifacts")

const referenceDonor = `{"months_since_last":6,"total_donations":2,"age":30,"hemoglobin_level":14.0,
"weight":70,"height":175,"has_chronic_disease":false,"on_medication":false,"is_smoker":false,
"is_alcoholic":false,"fitness_level":"medium","gender":"Male"}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPredictSingleFromStdin(t *testing.T) {
	out, err := run(t, referenceDonor, "predict", "--artifacts", artifactsDir)
	require.NoError(t, err)

	var resp handler.PredictionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 0.8, resp.Probability)
	assert.True(t, resp.Label)
	assert.Equal(t, eligibility.MessageLikelyEligible, resp.Message)
}

func TestPredictBatchFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "donors.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"donors":[`+referenceDonor+`,`+referenceDonor+`]}`), 0o600))

	out, err := run(t, "", "predict", "--artifacts", artifactsDir, "--workers", "2", path)
	require.NoError(t, err)

	var resp handler.BatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.TotalDonors)
	assert.Equal(t, 2, resp.EligibleCount)
	assert.Equal(t, eligibility.MessageEligible, resp.Predictions[1].Message)
}

func TestPredictStrictBatchRejectsCasing(t *testing.T) {
	_, err := run(t, `{"donors":[`+referenceDonor+`]}`, "predict", "--artifacts", artifactsDir, "--strict")
	require.Error(t, err)
	assert.ErrorIs(t, err, eligibility.ErrUnknownCategory)
	assert.Contains(t, err.Error(), "donor 0")
}

func TestPredictMissingFields(t *testing.T) {
	_, err := run(t, `{"age":30}`, "predict", "--artifacts", artifactsDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, eligibility.ErrInvalidInput)
}

func TestPredictMissingArtifacts(t *testing.T) {
	_, err := run(t, referenceDonor, "predict", "--artifacts", t.TempDir())
	assert.ErrorContains(t, err, "load artifacts")
}

func TestInspect(t *testing.T) {
	out, err := run(t, "", "inspect", "--artifacts", artifactsDir)
	require.NoError(t, err)
	assert.Contains(t, out, "version:  rf-reference-1")
	assert.Contains(t, out, "model:    random_forest")
	assert.Contains(t, out, "features: 14")
	assert.Contains(t, out, "fitness_level: HIGH, LOW, MEDIUM")
	assert.Contains(t, out, "gender: FEMALE, MALE")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "donorcheck (devel)\n", out)
}
