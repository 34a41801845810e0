package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/apperrors"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

// stubRunner fakes the model-runner sidecar.
type stubRunner struct {
	transform    func(row map[string]any) (*TransformResult, error)
	predictProba func(model string, vector []float64) (float64, error)
	explain      func(vector []float64) (json.RawMessage, error)
}

func (s *stubRunner) Transform(_ context.Context, row map[string]any) (*TransformResult, error) {
	return s.transform(row)
}

func (s *stubRunner) PredictProba(_ context.Context, model string, vector []float64) (float64, error) {
	return s.predictProba(model, vector)
}

func (s *stubRunner) Explain(_ context.Context, vector []float64) (json.RawMessage, error) {
	return s.explain(vector)
}

func TestScoreAveragesThreeModels(t *testing.T) {
	probs := map[string]float64{"logistic": 0.2, "rf": 0.4, "xgb": 0.9}
	var called []string
	runner := &stubRunner{
		predictProba: func(model string, _ []float64) (float64, error) {
			called = append(called, model)
			return probs[model], nil
		},
	}

	svc := NewPredictorService(runner)
	assessment, err := svc.Score(context.Background(), []float64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"logistic", "rf", "xgb"}, called)
	assert.InDelta(t, 0.5, assessment.Score, 1e-9)
	assert.Equal(t, models.RiskModerate, assessment.Level)
}

func TestScoreIsDeterministic(t *testing.T) {
	runner := &stubRunner{
		predictProba: func(model string, _ []float64) (float64, error) {
			return map[string]float64{"logistic": 0.11, "rf": 0.12, "xgb": 0.13}[model], nil
		},
	}
	svc := NewPredictorService(runner)

	first, err := svc.Score(context.Background(), []float64{1})
	require.NoError(t, err)
	second, err := svc.Score(context.Background(), []float64{1})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScoreStaysInUnitInterval(t *testing.T) {
	runner := &stubRunner{
		predictProba: func(string, []float64) (float64, error) { return 1.2, nil },
	}
	svc := NewPredictorService(runner)

	assessment, err := svc.Score(context.Background(), []float64{1})
	require.NoError(t, err)
	assert.LessOrEqual(t, assessment.Score, 1.0)
	assert.GreaterOrEqual(t, assessment.Score, 0.0)
}

func TestScoreModelFaultIsFatal(t *testing.T) {
	runner := &stubRunner{
		predictProba: func(model string, _ []float64) (float64, error) {
			if model == "rf" {
				return 0, errors.New("runner down")
			}
			return 0.5, nil
		},
	}
	svc := NewPredictorService(runner)

	_, err := svc.Score(context.Background(), []float64{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rf model")
}

func TestRiskLevelTierBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.0, models.RiskLow},
		{0.32999, models.RiskLow},
		{0.33, models.RiskModerate},
		{0.65999, models.RiskModerate},
		{0.66, models.RiskHigh},
		{1.0, models.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevel(tt.score), "score=%v", tt.score)
	}
}

func TestPreprocessNormalizesBeforeTransform(t *testing.T) {
	var seen map[string]any
	runner := &stubRunner{
		transform: func(row map[string]any) (*TransformResult, error) {
			seen = row
			return &TransformResult{Vector: []float64{1}, FeatureNames: []string{"f"}}, nil
		},
	}
	svc := NewPredictorService(runner)

	_, err := svc.Preprocess(context.Background(), map[string]any{"age": float64(29), "thalach": float64(150)})
	require.NoError(t, err)

	assert.Equal(t, "0-30", seen["age_group"])
	assert.Equal(t, float64(150), seen["thalch"])
}

func TestPreprocessSurfacesValidationError(t *testing.T) {
	runner := &stubRunner{
		transform: func(map[string]any) (*TransformResult, error) {
			return nil, apperrors.Validation("Preprocessing failed", errors.New("columns are missing"))
		},
	}
	svc := NewPredictorService(runner)

	_, err := svc.Preprocess(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusFor(err))
}
