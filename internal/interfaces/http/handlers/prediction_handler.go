package handlers

import (
	"net/http"

	"github.com/turtacn/qsim/internal/application/prediction"
	domainPred "github.com/turtacn/qsim/internal/domain/prediction"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/pkg/errors"
)

// PredictionHandler serves POST /predict and GET /model/info.
type PredictionHandler struct {
	svc         prediction.Service
	logger      logging.Logger
	maxBodySize int64
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(svc prediction.Service, logger logging.Logger, maxBodySize int64) *PredictionHandler {
	return &PredictionHandler{svc: svc, logger: logger, maxBodySize: maxBodySize}
}

// PredictResponse is the body of a successful prediction.
type PredictResponse struct {
	Status     string              `json:"status"`
	Prediction string              `json:"prediction"`
	Confidence float64             `json:"confidence"`
	Features   domainPred.Features `json:"features"`
}

// Predict handles POST /predict.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Loaded() {
		writeFailure(w, StatusFailed, errors.New(errors.ErrCodeModelNotAvailable, prediction.MsgModelNotAvailable), "")
		return
	}
	body, err := readBody(w, r, h.maxBodySize)
	if err != nil {
		writeFailure(w, StatusFailed, err, "")
		return
	}
	features, err := domainPred.DecodeFeatures(body)
	if err != nil {
		writeFailure(w, StatusFailed, err, "")
		return
	}

	out, err := h.svc.Predict(r.Context(), features)
	if err != nil {
		logFailure(h.logger, "Predict request failed", err)
		writeFailure(w, StatusFailed, err, "")
		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{
		Status:     StatusSuccess,
		Prediction: out.Prediction,
		Confidence: out.Confidence,
		Features:   out.Features,
	})
}

// ModelInfo handles GET /model/info.
func (h *PredictionHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.ModelInfo(r.Context())
	if err != nil {
		writeFailure(w, StatusFailed, err, "")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

//Personal.AI order the ending
