package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"donorcheck/internal/eligibility"
	"donorcheck/internal/eligibility/artifacts/artifactstest"
	"donorcheck/internal/eligibility/handler/mocks"
	"donorcheck/internal/eligibility/service"
	dErrors "donorcheck/pkg/domain-errors"
	"donorcheck/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(svc Service) chi.Router {
	r := chi.NewRouter()
	New(svc, discardLogger()).Register(r)
	return r
}

func referenceBody() map[string]any {
	return map[string]any{
		"months_since_last":   6,
		"total_donations":     2,
		"age":                 30,
		"hemoglobin_level":    14.0,
		"weight":              70.0,
		"height":              175.0,
		"has_chronic_disease": false,
		"on_medication":       false,
		"is_smoker":           false,
		"is_alcoholic":        false,
		"fitness_level":       "MEDIUM",
		"gender":              "MALE",
	}
}

func TestHandleRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newRouter(mocks.NewMockService(ctrl))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/"))

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[RootResponse](t, rr)
	assert.Equal(t, "Blood Donation Prediction API", resp.Message)
	assert.Equal(t, "active", resp.Status)
	testutil.AssertJSONHasKey(t, testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/")), "message")
}

func TestHandleHealth(t *testing.T) {
	testutil.Given(t, "a degraded service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().Health(gomock.Any()).Return(eligibility.Health{Status: "healthy"})

		rr := testutil.DoRequest(newRouter(svc), testutil.NewRequest(t, http.MethodGet, "/health"))

		testutil.Then(t, "health answers 200 with model_loaded false", func(t *testing.T) {
			testutil.AssertStatusOK(t, rr)
			resp := testutil.UnmarshalResponse[HealthResponse](t, rr)
			assert.Equal(t, "healthy", resp.Status)
			assert.False(t, resp.ModelLoaded)
		})
	})

	testutil.Given(t, "a loaded model", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().Health(gomock.Any()).Return(eligibility.Health{Status: "healthy", ModelLoaded: true, ModelVersion: "rf-1"})

		rr := testutil.DoRequest(newRouter(svc), testutil.NewRequest(t, http.MethodGet, "/health"))

		testutil.Then(t, "the version is reported", func(t *testing.T) {
			testutil.AssertJSONContains(t, rr, "model_version", "rf-1")
		})
	})
}

func TestHandlePredict(t *testing.T) {
	t.Run("maps the body onto a donor record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		sys := 130
		body := referenceBody()
		body["blood_pressure_systolic"] = sys

		want := artifactstest.ReferenceRecord()
		want.BloodPressureSystolic = &sys
		svc.EXPECT().Predict(gomock.Any(), want).Return(&eligibility.PredictionResult{
			Probability: 0.8,
			Label:       true,
			Message:     eligibility.MessageLikelyEligible,
		}, nil)

		req := testutil.WithRequestID(testutil.NewJSONRequest(t, http.MethodPost, "/predict", body), "req-123")
		rr := testutil.DoRequest(newRouter(svc), req)

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[PredictionResponse](t, rr)
		assert.Equal(t, 0.8, resp.Probability)
		assert.True(t, resp.Label)
		assert.Equal(t, eligibility.MessageLikelyEligible, resp.Message)
	})

	t.Run("missing fields are a validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		body := referenceBody()
		delete(body, "age")
		delete(body, "gender")

		rr := testutil.DoRequest(newRouter(mocks.NewMockService(ctrl)), testutil.NewJSONRequest(t, http.MethodPost, "/predict", body))

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		resp := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, string(dErrors.CodeValidation), resp["error"])
		assert.Equal(t, "missing required fields: age, gender", resp["error_description"])
	})

	t.Run("wrong JSON type is a bad request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		body := referenceBody()
		body["age"] = "thirty"

		rr := testutil.DoRequest(newRouter(mocks.NewMockService(ctrl)), testutil.NewJSONRequest(t, http.MethodPost, "/predict", body))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	t.Run("empty body is a bad request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rr := testutil.DoRequest(newRouter(mocks.NewMockService(ctrl)), testutil.NewRequestWithBody(t, http.MethodPost, "/predict", ""))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	tests := []struct {
		name        string
		err         error
		status      int
		code        dErrors.Code
		description bool
	}{
		{"unknown category", dErrors.New(dErrors.CodeUnknownCategory, "gender: unknown category"), http.StatusUnprocessableEntity, dErrors.CodeUnknownCategory, true},
		{"model unavailable", dErrors.New(dErrors.CodeUnavailable, "model artifacts are not loaded"), http.StatusServiceUnavailable, dErrors.CodeUnavailable, true},
		{"schema mismatch", dErrors.New(dErrors.CodeSchemaMismatch, "schema mismatch: 13 != 14"), http.StatusInternalServerError, dErrors.CodeSchemaMismatch, true},
		{"internal", fmt.Errorf("boom"), http.StatusInternalServerError, dErrors.CodeInternal, false},
	}
	for _, tt := range tests {
		t.Run("service error "+tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			svc.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rr := testutil.DoRequest(newRouter(svc), testutil.NewJSONRequest(t, http.MethodPost, "/predict", referenceBody()))

			testutil.AssertStatus(t, rr, tt.status)
			resp := testutil.UnmarshalErrorResponse(t, rr)
			assert.Equal(t, string(tt.code), resp["error"])
			_, hasDescription := resp["error_description"]
			assert.Equal(t, tt.description, hasDescription)
		})
	}
}

func TestHandlePredictBatch(t *testing.T) {
	t.Run("returns predictions in order with totals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().PredictBatch(gomock.Any(), gomock.Len(2)).Return(&eligibility.BatchResult{
			Predictions: []eligibility.PredictionResult{
				{Probability: 0.8, Label: true, Message: eligibility.MessageEligible},
				{Probability: 0.3833, Label: false, Message: eligibility.MessageNotEligible},
			},
			TotalDonors:   2,
			EligibleCount: 1,
		}, nil)

		body := map[string]any{"donors": []any{referenceBody(), referenceBody()}}
		rr := testutil.DoRequest(newRouter(svc), testutil.NewJSONRequest(t, http.MethodPost, "/predict-batch", body))

		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[BatchResponse](t, rr)
		require.Len(t, resp.Predictions, 2)
		assert.Equal(t, 2, resp.TotalDonors)
		assert.Equal(t, 1, resp.EligibleCount)
		assert.Equal(t, eligibility.MessageNotEligible, resp.Predictions[1].Message)
	})

	t.Run("missing donors field is a validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		rr := testutil.DoRequest(newRouter(mocks.NewMockService(ctrl)), testutil.NewRequestWithBody(t, http.MethodPost, "/predict-batch", `{}`))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("invalid donor names its index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		bad := referenceBody()
		delete(bad, "weight")
		body := map[string]any{"donors": []any{referenceBody(), bad}}

		rr := testutil.DoRequest(newRouter(mocks.NewMockService(ctrl)), testutil.NewJSONRequest(t, http.MethodPost, "/predict-batch", body))

		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		resp := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, "donors[1]: missing required fields: weight", resp["error_description"])
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		huge := `{"donors":[` + strings.Repeat(testutil.MustMarshal(t, referenceBody())+",", 5000) + `{}]}`

		rr := testutil.DoRequest(newRouter(mocks.NewMockService(ctrl)), testutil.NewRequestWithBody(t, http.MethodPost, "/predict-batch", huge))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

// End to end through the real service and the reference artifacts.
func TestPredictEndToEnd(t *testing.T) {
	svc := service.New(artifactstest.Bundle(t), service.WithLogger(discardLogger()))
	router := newRouter(svc)

	testutil.Given(t, "the reference donor", func(t *testing.T) {
		single := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/predict", referenceBody()))
		batch := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/predict-batch",
			map[string]any{"donors": []any{referenceBody()}}))

		testutil.Then(t, "single and batch agree", func(t *testing.T) {
			testutil.AssertStatusOK(t, single)
			testutil.AssertStatusOK(t, batch)
			s := testutil.UnmarshalResponse[PredictionResponse](t, single)
			b := testutil.UnmarshalResponse[BatchResponse](t, batch)
			require.Len(t, b.Predictions, 1)
			assert.Equal(t, s.Probability, b.Predictions[0].Probability)
			assert.Equal(t, s.Label, b.Predictions[0].Label)
			assert.Equal(t, eligibility.MessageLikelyEligible, s.Message)
			assert.Equal(t, eligibility.MessageEligible, b.Predictions[0].Message)
			assert.Equal(t, 1, b.EligibleCount)
		})
	})

	testutil.Given(t, "an empty batch", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/predict-batch", `{"donors":[]}`))

		testutil.Then(t, "it succeeds with zero totals", func(t *testing.T) {
			testutil.AssertStatusOK(t, rr)
			b := testutil.UnmarshalResponse[BatchResponse](t, rr)
			assert.Empty(t, b.Predictions)
			assert.Zero(t, b.TotalDonors)
		})
	})

	testutil.Given(t, "a degraded service", func(t *testing.T) {
		degraded := newRouter(service.New(nil, service.WithLogger(discardLogger())))
		rr := testutil.DoRequest(degraded, testutil.NewJSONRequest(t, http.MethodPost, "/predict", referenceBody()))

		testutil.Then(t, "prediction is unavailable", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, string(dErrors.CodeUnavailable))
		})
	})
}

var _ Service = (*service.Service)(nil)
