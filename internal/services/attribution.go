package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

// topFeatureCount caps the attribution list returned to clients.
const topFeatureCount = 5

// Explainer is the slice of the runner client attribution needs.
type Explainer interface {
	Explain(ctx context.Context, vector []float64) (json.RawMessage, error)
}

// AttributionService extracts per-feature SHAP contributions for a single
// prediction. Best-effort: every failure degrades to an empty list plus a
// carried message, never an aborted request.
type AttributionService struct {
	explainer Explainer
}

func NewAttributionService(explainer Explainer) *AttributionService {
	return &AttributionService{explainer: explainer}
}

// TopFeatures returns at most topFeatureCount attributions for the vector,
// sorted by descending absolute contribution. The second return value is a
// diagnostic carried to the client as shap_error when extraction failed.
func (s *AttributionService) TopFeatures(ctx context.Context, vector []float64, featureNames []string) ([]models.FeatureAttribution, string) {
	raw, err := s.explainer.Explain(ctx, vector)
	if err != nil {
		return []models.FeatureAttribution{}, err.Error()
	}

	sample, err := normalizeShapOutput(raw)
	if err != nil {
		return []models.FeatureAttribution{}, err.Error()
	}
	if len(sample) != len(featureNames) {
		return []models.FeatureAttribution{}, fmt.Sprintf(
			"shap output has %d values for %d features", len(sample), len(featureNames))
	}

	attrs := make([]models.FeatureAttribution, len(sample))
	for i, v := range sample {
		attrs[i] = models.FeatureAttribution{Feature: featureNames[i], Value: v}
	}
	sort.SliceStable(attrs, func(i, j int) bool {
		return math.Abs(attrs[i].Value) > math.Abs(attrs[j].Value)
	})

	if len(attrs) > topFeatureCount {
		attrs = attrs[:topFeatureCount]
	}
	return attrs, ""
}

// normalizeShapOutput flattens the explainer's possibly multi-class or
// multi-sample output into the 1-D vector for the first sample. Accepted
// shapes: [f...], [[f...]...], or [[[f...]...]...] (one matrix per class,
// first class taken).
func normalizeShapOutput(raw json.RawMessage) ([]float64, error) {
	var depth3 [][][]float64
	if err := json.Unmarshal(raw, &depth3); err == nil && len(depth3) > 0 {
		if len(depth3[0]) == 0 {
			return nil, fmt.Errorf("empty shap matrix for first class")
		}
		return depth3[0][0], nil
	}

	var depth2 [][]float64
	if err := json.Unmarshal(raw, &depth2); err == nil && len(depth2) > 0 {
		return depth2[0], nil
	}

	var depth1 []float64
	if err := json.Unmarshal(raw, &depth1); err == nil && len(depth1) > 0 {
		return depth1, nil
	}

	return nil, fmt.Errorf("unrecognized shap output shape")
}
