package models

import (
	"time"
)

// Risk tiers derived from the averaged ensemble probability.
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
)

// RiskAssessment is the ensemble output: a probability in [0,1] plus its tier.
type RiskAssessment struct {
	Score float64 `json:"risk_score"`
	Level string  `json:"risk_level"`
}

// FeatureAttribution is one feature's signed contribution to a single
// prediction, as reported by the explainer.
type FeatureAttribution struct {
	Feature string  `json:"feature" bson:"feature"`
	Value   float64 `json:"value" bson:"value"`
}

// PredictResponse is the POST /predict body returned to the client.
type PredictResponse struct {
	Input                map[string]any       `json:"input"`
	RiskScore            float64              `json:"risk_score"`
	RiskLevel            string               `json:"risk_level"`
	TopFeatures          []FeatureAttribution `json:"top_features"`
	ExplanationText      string               `json:"explanation_text"`
	LifestyleSuggestions []string             `json:"lifestyle_suggestions"`
	FollowupPlan         string               `json:"followup_plan"`
	PrescriptionSummary  string               `json:"prescription_summary"`
	Lifestyle            map[string]any       `json:"lifestyle"`
	PatientName          string               `json:"patientName"`
	ShapError            string               `json:"shap_error,omitempty"`
}

// PredictionRecord is one document in the predictions collection. Created on
// each prediction call, never mutated, deleted only by an owner-scoped delete.
type PredictionRecord struct {
	ID                    string               `json:"id,omitempty" bson:"-"`
	CreatedAt             time.Time            `json:"created_at" bson:"created_at"`
	UserID                string               `json:"userId" bson:"userId"`
	DoctorID              string               `json:"doctorId" bson:"doctorId"`
	PatientID             string               `json:"patientId" bson:"patientId"`
	PatientName           string               `json:"patientName" bson:"patientName"`
	Input                 map[string]any       `json:"input" bson:"input"`
	RiskScore             float64              `json:"risk_score" bson:"risk_score"`
	RiskLevel             string               `json:"risk_level" bson:"risk_level"`
	Trestbps              any                  `json:"trestbps" bson:"trestbps"`
	Chol                  any                  `json:"chol" bson:"chol"`
	Thalach               any                  `json:"thalach" bson:"thalach"`
	Oldpeak               any                  `json:"oldpeak" bson:"oldpeak"`
	Restecg               any                  `json:"restecg" bson:"restecg"`
	SmokingStatus         any                  `json:"smoking_status" bson:"smoking_status"`
	DiabetesStatus        any                  `json:"diabetes_status" bson:"diabetes_status"`
	FamilyHistoryDiabetes any                  `json:"family_history_diabetes" bson:"family_history_diabetes"`
	PregnancyStatus       any                  `json:"pregnancy_status" bson:"pregnancy_status"`
	TopFeatures           []FeatureAttribution `json:"top_features" bson:"top_features"`
	ExplanationText       string               `json:"explanation_text" bson:"explanation_text"`
	LifestyleSuggestions  []string             `json:"lifestyle_suggestions" bson:"lifestyle_suggestions"`
	FollowupPlan          string               `json:"followup_plan" bson:"followup_plan"`
	PrescriptionSummary   string               `json:"prescription_summary" bson:"prescription_summary"`
}

// PatientSummary is one row of the per-doctor patient roster.
type PatientSummary struct {
	PatientID       string     `json:"patientId"`
	PatientName     string     `json:"patientName"`
	LastVisit       *time.Time `json:"lastVisit"`
	AssessmentCount int        `json:"assessmentCount"`
}

// PatientStats aggregates one patient's assessment history.
type PatientStats struct {
	AssessmentCount int        `json:"assessmentCount"`
	FirstVisit      *time.Time `json:"firstVisit"`
	LastVisit       *time.Time `json:"lastVisit"`
}

// PatientProfile is the full history view for one patient of a doctor.
type PatientProfile struct {
	PatientID   string             `json:"patientId"`
	PatientName string             `json:"patientName"`
	Stats       PatientStats       `json:"stats"`
	History     []PredictionRecord `json:"history"`
}
