package handler

import "donorcheck/internal/eligibility"

// PredictionResponse is one scored donor.
type PredictionResponse struct {
	Probability float64 `json:"probability"`
	Label       bool    `json:"label"`
	Message     string  `json:"message"`
}

// BatchResponse is the HTTP response for POST /predict-batch.
type BatchResponse struct {
	Predictions   []PredictionResponse `json:"predictions"`
	TotalDonors   int                  `json:"total_donors"`
	EligibleCount int                  `json:"eligible_count"`
}

// HealthResponse is the HTTP response for GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version,omitempty"`
}

// RootResponse is the HTTP response for GET /.
type RootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func FromPrediction(p *eligibility.PredictionResult) PredictionResponse {
	return PredictionResponse{
		Probability: p.Probability,
		Label:       p.Label,
		Message:     p.Message,
	}
}

func FromBatch(b *eligibility.BatchResult) *BatchResponse {
	predictions := make([]PredictionResponse, len(b.Predictions))
	for i := range b.Predictions {
		predictions[i] = FromPrediction(&b.Predictions[i])
	}
	return &BatchResponse{
		Predictions:   predictions,
		TotalDonors:   b.TotalDonors,
		EligibleCount: b.EligibleCount,
	}
}

func FromHealth(h eligibility.Health) *HealthResponse {
	return &HealthResponse{
		Status:       h.Status,
		ModelLoaded:  h.ModelLoaded,
		ModelVersion: h.ModelVersion,
	}
}
