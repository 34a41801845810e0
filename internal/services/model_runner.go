package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/apperrors"
)

// TransformResult is the preprocessed single-row feature vector together
// with the column names the fitted pipeline produced.
type TransformResult struct {
	Vector       []float64 `json:"vector"`
	FeatureNames []string  `json:"feature_names"`
}

// ModelRunnerClient talks to the model-runner sidecar that holds the fitted
// preprocessor, the three classifiers and the tree explainer. The artifacts
// stay opaque; this service only moves JSON.
type ModelRunnerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewModelRunnerClient creates a client for the given runner URL.
func NewModelRunnerClient(baseURL string, timeoutSec int) *ModelRunnerClient {
	if timeoutSec <= 0 {
		timeoutSec = 30
	}
	return &ModelRunnerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// Transform runs the fitted preprocessing pipeline over one normalized
// feature row. A 4xx from the runner means the row is incompatible with the
// pipeline (missing columns, bad types) and surfaces as a validation error.
func (c *ModelRunnerClient) Transform(ctx context.Context, row map[string]any) (*TransformResult, error) {
	body, err := c.post(ctx, "/transform", map[string]any{"features": row})
	if err != nil {
		return nil, err
	}

	var result TransformResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Dependency("invalid transform response", err)
	}
	if len(result.Vector) == 0 || len(result.Vector) != len(result.FeatureNames) {
		return nil, apperrors.Dependency("transform response shape mismatch", nil)
	}
	return &result, nil
}

// PredictProba returns P(positive class) from one named classifier.
func (c *ModelRunnerClient) PredictProba(ctx context.Context, model string, vector []float64) (float64, error) {
	body, err := c.post(ctx, "/predict/"+model, map[string]any{"vector": vector})
	if err != nil {
		return 0, err
	}

	var result struct {
		Probability float64 `json:"probability"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, apperrors.Dependency("invalid predict response", err)
	}
	return result.Probability, nil
}

// Explain returns the raw SHAP output for the vector. The shape varies by
// explainer version (vector, matrix, or list of per-class matrices), so the
// payload is handed back undecoded for normalization at the boundary.
func (c *ModelRunnerClient) Explain(ctx context.Context, vector []float64) (json.RawMessage, error) {
	body, err := c.post(ctx, "/explain", map[string]any{"vector": vector})
	if err != nil {
		return nil, err
	}

	var result struct {
		ShapValues json.RawMessage `json:"shap_values"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.Dependency("invalid explain response", err)
	}
	return result.ShapValues, nil
}

func (c *ModelRunnerClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Dependency("failed to serialize runner request", err)
	}

	url := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, apperrors.Dependency("failed to create runner request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.Dependency("model runner unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Dependency("failed to read runner response", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, apperrors.Validation("Preprocessing failed", fmt.Errorf("model runner %s: %s", resp.Status, runnerErrorText(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Dependency("model runner error", fmt.Errorf("%s: %s", resp.Status, string(body)))
	}

	return body, nil
}

// runnerErrorText pulls the runner's error string out of its JSON body when
// present so clients see a usable diagnostic.
func runnerErrorText(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return string(body)
}
