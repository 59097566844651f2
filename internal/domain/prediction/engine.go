// Package prediction implements the mocked classical-vs-quantum classifier.
// The score is a weighted sum of two features plus jitter; there is no model.
package prediction

import (
	"math"

	"github.com/turtacn/qsim/internal/domain/simulation"
)

// Labels returned by Predict.
const (
	LabelQuantum   = "Quantum"
	LabelClassical = "Classical"
)

// quantumThreshold is exclusive: a confidence of exactly 0.5 is Classical.
const quantumThreshold = 0.5

// Prediction is the classifier output.
type Prediction struct {
	Label      string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// ModelInfo describes the mocked model.
type ModelInfo struct {
	ModelType   string `json:"model_type"`
	Description string `json:"description"`
}

// Engine scores feature sets.  It shares the RandomSource contract with the
// simulation engine.
type Engine struct {
	rnd simulation.RandomSource
}

// NewEngine returns an Engine drawing jitter from rnd.  A nil rnd gets a
// clock-seeded locked source.
func NewEngine(rnd simulation.RandomSource) *Engine {
	if rnd == nil {
		rnd = simulation.NewLockedSource(0)
	}
	return &Engine{rnd: rnd}
}

// Predict scores f.  Confidence is always within [0, 1].
func (e *Engine) Predict(f Features) Prediction {
	complexity := f.Number(FeatureMolecularComplexity, 1)
	qubits := f.Number(FeatureNumQubits, 1)

	score := (complexity*0.4+qubits*0.6)/10 + (0.2*e.rnd.Float64() - 0.1)
	confidence := math.Max(0, math.Min(1, score))
	if math.IsNaN(confidence) {
		confidence = 0
	}

	label := LabelClassical
	if confidence > quantumThreshold {
		label = LabelQuantum
	}
	return Prediction{Label: label, Confidence: confidence}
}

// Info returns the model description served by /model/info.
func (e *Engine) Info() ModelInfo {
	return ModelInfo{
		ModelType:   "Quantum Chemistry ML Model",
		Description: "Machine learning model for predicting molecular properties",
	}
}

//Personal.AI order the ending
