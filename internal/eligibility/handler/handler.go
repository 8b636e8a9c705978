package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"donorcheck/internal/eligibility"
	"donorcheck/pkg/platform/httputil"
	"donorcheck/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Service defines the interface for eligibility operations.
type Service interface {
	Predict(ctx context.Context, record eligibility.DonorRecord) (*eligibility.PredictionResult, error)
	PredictBatch(ctx context.Context, records []eligibility.DonorRecord) (*eligibility.BatchResult, error)
	Health(ctx context.Context) eligibility.Health
}

const (
	rootMessage = "Blood Donation Prediction API"
	rootStatus  = "active"
)

// Handler wires eligibility endpoints to the eligibility service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an eligibility handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts eligibility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
	r.Post("/predict", h.HandlePredict)
	r.Post("/predict-batch", h.HandlePredictBatch)
}

// HandleRoot handles GET / requests.
func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, RootResponse{Message: rootMessage, Status: rootStatus})
}

// HandleHealth handles GET /health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromHealth(h.service.Health(r.Context())))
}

// HandlePredict handles POST /predict requests.
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[DonorRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Predict(ctx, req.ToRecord())
	if err != nil {
		h.logger.ErrorContext(ctx, "prediction failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "donor scored",
		"request_id", requestID,
		"probability", result.Probability,
		"label", result.Label,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromPrediction(result))
}

// HandlePredictBatch handles POST /predict-batch requests.
func (h *Handler) HandlePredictBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.PredictBatch(ctx, req.Records())
	if err != nil {
		h.logger.ErrorContext(ctx, "batch prediction failed",
			"request_id", requestID,
			"donors", len(req.Donors),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "batch scored",
		"request_id", requestID,
		"donors", result.TotalDonors,
		"eligible", result.EligibleCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromBatch(result))
}
