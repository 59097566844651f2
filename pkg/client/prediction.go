package client

import (
	"context"
	"fmt"
)

// Prediction labels.
const (
	LabelQuantum   = "Quantum"
	LabelClassical = "Classical"
)

// Features maps a feature name to a number or string.  The engine reads
// molecular_complexity and num_qubits; other keys are echoed back.
type Features map[string]interface{}

// PredictRequest is the Predict request body.
type PredictRequest struct {
	Features Features `json:"features"`
}

// PredictionResult is the Predict response.
type PredictionResult struct {
	Status     string   `json:"status"`
	Prediction string   `json:"prediction"`
	Confidence float64  `json:"confidence"`
	Features   Features `json:"features"`
}

// ModelInfo describes the loaded prediction model.
type ModelInfo struct {
	ModelType   string `json:"model_type"`
	Description string `json:"description"`
}

// Predict scores a feature set through POST /api/predict.
func (c *Client) Predict(ctx context.Context, f Features) (*PredictionResult, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: features are required", ErrInvalidArgument)
	}
	var out PredictionResult
	if err := c.post(ctx, "/api/predict", PredictRequest{Features: f}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ModelInfo fetches GET /model/info.  A server without a model answers 404.
func (c *Client) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	var out ModelInfo
	if err := c.get(ctx, "/model/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
