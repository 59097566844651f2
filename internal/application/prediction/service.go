// Package prediction provides the application-level predict and model-info
// use cases.
package prediction

import (
	"context"
	"time"

	domainPred "github.com/turtacn/qsim/internal/domain/prediction"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/qsim/pkg/errors"
)

// Messages for an absent model.
const (
	MsgModelNotAvailable = "ML model not available."
	MsgModelNotLoaded    = "Model not loaded."
)

// Service defines the prediction use cases.
type Service interface {
	Predict(ctx context.Context, features domainPred.Features) (*Output, error)
	ModelInfo(ctx context.Context) (*domainPred.ModelInfo, error)
	// Loaded reports whether a model is attached.
	Loaded() bool
}

// Predictor scores a feature set.
type Predictor interface {
	Predict(f domainPred.Features) domainPred.Prediction
	Info() domainPred.ModelInfo
}

// Output is a prediction plus the features it was computed from.
type Output struct {
	Prediction string              `json:"prediction"`
	Confidence float64             `json:"confidence"`
	Features   domainPred.Features `json:"features"`
}

type serviceImpl struct {
	model   Predictor
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// Option configures the service.
type Option func(*serviceImpl)

// WithMetrics records prediction counts and durations.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *serviceImpl) { s.metrics = m }
}

// NewService creates a new prediction service.  A nil model makes every call
// fail with ErrCodeModelNotAvailable.
func NewService(model Predictor, logger logging.Logger, opts ...Option) Service {
	s := &serviceImpl{model: model, logger: logger.Named("prediction")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) Loaded() bool { return s.model != nil }

func (s *serviceImpl) Predict(ctx context.Context, features domainPred.Features) (*Output, error) {
	if s.model == nil {
		s.logger.Error("ML model not loaded")
		return nil, errors.New(errors.ErrCodeModelNotAvailable, MsgModelNotAvailable)
	}
	if features == nil {
		return nil, errors.New(errors.ErrCodeInvalidFeatures, domainPred.MsgFeaturesRequired)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePredictionFailed, "prediction cancelled")
	}

	start := time.Now()
	p := s.model.Predict(features)
	prometheus.RecordPrediction(s.metrics, p.Label, time.Since(start))

	s.logger.Debug("Prediction computed",
		logging.String("label", p.Label),
		logging.Float64("confidence", p.Confidence),
	)
	return &Output{Prediction: p.Label, Confidence: p.Confidence, Features: features}, nil
}

func (s *serviceImpl) ModelInfo(ctx context.Context) (*domainPred.ModelInfo, error) {
	if s.model == nil {
		return nil, errors.New(errors.ErrCodeNotFound, MsgModelNotLoaded)
	}
	info := s.model.Info()
	return &info, nil
}

//Personal.AI order the ending
