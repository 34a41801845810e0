package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/middleware"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/services"
)

// Predictor runs preprocessing and ensemble scoring.
type Predictor interface {
	Preprocess(ctx context.Context, raw map[string]any) (*services.TransformResult, error)
	Score(ctx context.Context, vector []float64) (models.RiskAssessment, error)
}

// FeatureExplainer extracts top feature attributions, best-effort.
type FeatureExplainer interface {
	TopFeatures(ctx context.Context, vector []float64, featureNames []string) ([]models.FeatureAttribution, string)
}

// Narrator produces the four natural-language enrichments.
type Narrator interface {
	GenerateExplanation(ctx context.Context, inputs map[string]any, score float64, level string, top []models.FeatureAttribution, language string) string
	GenerateLifestyleSuggestions(ctx context.Context, inputs map[string]any, score float64, level string, top []models.FeatureAttribution, language string) []string
	GenerateFollowupPlan(ctx context.Context, inputs map[string]any, score float64, level string, top []models.FeatureAttribution, language string) string
	GeneratePrescriptionSummary(ctx context.Context, inputs map[string]any, score float64, level string, top []models.FeatureAttribution, language string) string
}

// PredictHandler serves POST /predict.
type PredictHandler struct {
	predictor Predictor
	explainer FeatureExplainer
	narrator  Narrator
	history   HistoryStore
}

func NewPredictHandler(predictor Predictor, explainer FeatureExplainer, narrator Narrator, history HistoryStore) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
		explainer: explainer,
		narrator:  narrator,
		history:   history,
	}
}

// Predict runs the full prediction pipeline.
// @Summary Heart-disease risk prediction
// @Description Scores the submitted clinical features with the three-model ensemble, extracts top feature attributions and generates narrative explanations
// @Tags predict
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token (optional; tags the stored record with the caller)"
// @Success 200 {object} models.PredictResponse "Prediction result"
// @Failure 400 {object} models.ErrorResponse "Preprocessing failed"
// @Failure 500 {object} models.ErrorResponse "Model invocation fault"
// @Router /predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	raw := map[string]any{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Msg: "Invalid JSON body", Error: err.Error()})
		return
	}

	patientName := stringField(raw, "patientName", "patient_name")
	lifestyle := mapField(raw, "lifestyle")
	if lifestyle == nil {
		lifestyle = map[string]any{}
	}
	language := stringField(raw, "language")
	if language == "" {
		language = "en"
	}

	// Clients either nest the clinical fields under "features" or send them
	// flat at the top level.
	inputs := mapField(raw, "features")
	if inputs == nil {
		inputs = raw
	}

	ctx := c.Request.Context()

	processed, err := h.predictor.Preprocess(ctx, inputs)
	if err != nil {
		respondError(c, err)
		return
	}

	assessment, err := h.predictor.Score(ctx, processed.Vector)
	if err != nil {
		respondError(c, err)
		return
	}

	topFeatures, shapErr := h.explainer.TopFeatures(ctx, processed.Vector, processed.FeatureNames)

	explanation := h.narrator.GenerateExplanation(ctx, inputs, assessment.Score, assessment.Level, topFeatures, language)
	suggestions := h.narrator.GenerateLifestyleSuggestions(ctx, inputs, assessment.Score, assessment.Level, topFeatures, language)
	followup := h.narrator.GenerateFollowupPlan(ctx, inputs, assessment.Score, assessment.Level, topFeatures, language)
	prescription := h.narrator.GeneratePrescriptionSummary(ctx, inputs, assessment.Score, assessment.Level, topFeatures, language)

	// Identity only tags the stored record; an absent or invalid token never
	// blocks the prediction itself.
	userEmail := c.GetString(middleware.ContextUserEmail)

	response := models.PredictResponse{
		Input:                inputs,
		RiskScore:            assessment.Score,
		RiskLevel:            assessment.Level,
		TopFeatures:          topFeatures,
		ExplanationText:      explanation,
		LifestyleSuggestions: suggestions,
		FollowupPlan:         followup,
		PrescriptionSummary:  prescription,
		Lifestyle:            lifestyle,
		PatientName:          patientName,
		ShapError:            shapErr,
	}

	record := &models.PredictionRecord{
		UserID:                userEmail,
		DoctorID:              userEmail,
		PatientID:             services.PatientKey(userEmail, patientName),
		PatientName:           patientName,
		Input:                 inputs,
		RiskScore:             assessment.Score,
		RiskLevel:             assessment.Level,
		Trestbps:              inputs["trestbps"],
		Chol:                  inputs["chol"],
		Thalach:               inputs["thalach"],
		Oldpeak:               inputs["oldpeak"],
		Restecg:               inputs["restecg"],
		SmokingStatus:         lifestyle["smoking_status"],
		DiabetesStatus:        lifestyle["diabetes_status"],
		FamilyHistoryDiabetes: lifestyle["family_history_diabetes"],
		PregnancyStatus:       lifestyle["pregnancy_status"],
		TopFeatures:           topFeatures,
		ExplanationText:       explanation,
		LifestyleSuggestions:  suggestions,
		FollowupPlan:          followup,
		PrescriptionSummary:   prescription,
	}
	if err := h.history.Record(ctx, record); err != nil {
		// Persistence is not part of the prediction's success contract.
		slog.Warn("Failed to store prediction record", "error", err, "user", userEmail)
	}

	c.JSON(http.StatusOK, response)
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func mapField(raw map[string]any, key string) map[string]any {
	if v, ok := raw[key].(map[string]any); ok {
		return v
	}
	return nil
}
