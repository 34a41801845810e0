package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/features"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
	"github.com/Udbhav-2025/udbhav-ht100ml011/pkg/utils"
)

// Ensemble member names, matching the artifacts loaded by the model runner.
var ensembleModels = []string{"logistic", "rf", "xgb"}

// ModelRunner is the slice of the runner client the predictor needs.
type ModelRunner interface {
	Transform(ctx context.Context, row map[string]any) (*TransformResult, error)
	PredictProba(ctx context.Context, model string, vector []float64) (float64, error)
	Explain(ctx context.Context, vector []float64) (json.RawMessage, error)
}

// PredictorService runs the prediction pipeline: derive missing categorical
// columns, transform through the fitted preprocessor, score with the
// three-model ensemble and tier the averaged probability.
type PredictorService struct {
	runner ModelRunner
}

func NewPredictorService(runner ModelRunner) *PredictorService {
	return &PredictorService{runner: runner}
}

// Preprocess normalizes the raw feature mapping and runs the fitted
// transform. Transform rejection is a client-correctable validation error.
func (s *PredictorService) Preprocess(ctx context.Context, raw map[string]any) (*TransformResult, error) {
	row := features.Normalize(raw)
	return s.runner.Transform(ctx, row)
}

// Score averages P(positive) across the three classifiers. Deterministic for
// fixed artifacts and input; any model fault is fatal to the request.
func (s *PredictorService) Score(ctx context.Context, vector []float64) (models.RiskAssessment, error) {
	probs := make([]float64, 0, len(ensembleModels))
	for _, name := range ensembleModels {
		p, err := s.runner.PredictProba(ctx, name, vector)
		if err != nil {
			return models.RiskAssessment{}, fmt.Errorf("%s model: %w", name, err)
		}
		probs = append(probs, p)
	}

	score := utils.Clamp01(utils.SafeFloat(utils.Mean(probs)))
	return models.RiskAssessment{
		Score: score,
		Level: RiskLevel(score),
	}, nil
}

// RiskLevel maps a score to its tier. Boundaries: <0.33 Low, <0.66 Moderate,
// else High.
func RiskLevel(score float64) string {
	switch {
	case score < 0.33:
		return models.RiskLow
	case score < 0.66:
		return models.RiskModerate
	default:
		return models.RiskHigh
	}
}
