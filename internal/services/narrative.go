package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/Udbhav-2025/udbhav-ht100ml011/config"
	"github.com/Udbhav-2025/udbhav-ht100ml011/internal/models"
)

// NarrativeService produces the four natural-language enrichments of a
// prediction via Gemini. Every method is best-effort: an unconfigured or
// failing client yields a fixed, policy-compliant template instead of an
// error. The safety constraints (no medication names or dosages, no
// diagnosis claims, always point to a professional) are enforced through
// prompt instructions only.
type NarrativeService struct {
	client *genai.Client
	model  string
}

// NewNarrativeService builds the generator. Without an API key the service
// stays in fallback mode; a client construction failure does the same.
func NewNarrativeService(ctx context.Context, cfg config.GeminiConfig) *NarrativeService {
	s := &NarrativeService{model: cfg.Model}
	if cfg.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, narrative generation uses fallback templates")
		return s
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		slog.Error("Failed to create Gemini client, using fallback templates", "error", err)
		return s
	}
	s.client = client
	return s
}

// generate runs one completion and returns ok=false on any failure.
func (s *NarrativeService) generate(ctx context.Context, prompt string) (string, bool) {
	if s.client == nil {
		return "", false
	}
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		slog.Warn("Gemini call failed", "error", err)
		return "", false
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", false
	}
	return text, true
}

// promptContext formats the shared (inputs, score, level, top features)
// tuple every prompt carries.
func promptContext(inputs map[string]any, score float64, level string, top []models.FeatureAttribution) string {
	pairs := make([]string, 0, len(inputs))
	for k, v := range inputs {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
	}
	feats := make([]string, 0, len(top))
	for _, f := range top {
		feats = append(feats, fmt.Sprintf("(%s, %.4f)", f.Feature, f.Value))
	}
	return fmt.Sprintf(
		"Inputs (key=value): %s\nRisk score (0-1): %.3f\nRisk level: %s\nTop contributing features (name, shap_value): %s",
		strings.Join(pairs, ", "), score, level, strings.Join(feats, ", "))
}

// GenerateExplanation returns a short plain-language reading of the result.
func (s *NarrativeService) GenerateExplanation(ctx context.Context, inputs map[string]any, score float64, level string, top []models.FeatureAttribution, language string) string {
	prompt := fmt.Sprintf(`You are helping to explain the output of a heart-disease risk prediction tool. The tool is not a diagnostic system and must not give medical advice. Explain the result in clear, simple language (about 3-5 sentences). Avoid technical machine-learning terms.

IMPORTANT GUIDELINES:
- Do NOT claim to diagnose or treat any condition.
- Emphasize that the result is only an estimate based on limited inputs.
- Encourage the person to consult a qualified healthcare professional.
- Use neutral, supportive language.

Language: %s

%s`, language, promptContext(inputs, score, level, top))

	if text, ok := s.generate(ctx, prompt); ok {
		return text
	}
	return explanationFallback(level, score)
}

// GenerateLifestyleSuggestions returns 3-5 short heart-health tips framed as
// general education, never as medical advice.
func (s *NarrativeService) GenerateLifestyleSuggestions(ctx context.Context, inputs map[string]any, score float64, level string, top []models.FeatureAttribution, language string) []string {
	prompt := fmt.Sprintf(`You are assisting with a heart-health education tool. Based on the following estimated risk and risk factors, provide 3-5 short, high-level lifestyle suggestions that a person could discuss with a healthcare professional. These should be generic, non-personalized tips about heart-healthy habits.

STRICT RULES:
- Do NOT give any diagnosis.
- Do NOT mention specific medications or treatment plans.
- Do NOT sound certain about the person's actual health.
- Emphasize that the suggestions are general and should be discussed with a doctor.
- Keep each suggestion to 1-2 sentences.

Language: %s

%s`, language, promptContext(inputs, score, level, top))

	text, ok := s.generate(ctx, prompt)
	if !ok {
		return lifestyleFallback(level)
	}

	var suggestions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		if line != "" {
			suggestions = append(suggestions, line)
		}
	}
	if len(suggestions) == 0 {
		return lifestyleFallback(level)
	}
	return suggestions
}

// GenerateFollowupPlan returns a short list of topics and questions to bring
// to a clinician. Intentionally not a prescription.
func (s *NarrativeService) GenerateFollowupPlan(ctx context.Context, inputs map[string]any, score float64, level string, top []models.FeatureAttribution, language string) string {
	prompt := fmt.Sprintf(`You are assisting with a heart-health education tool. Based on the estimated risk and contributing factors, write a brief follow-up plan that a person could discuss with a qualified healthcare professional.

The plan should:
- Be written in %s.
- NOT be a medical prescription or treatment plan.
- Suggest questions to ask a doctor, topics to review, or possible next steps (e.g., ask about further tests, monitoring, or lifestyle changes).
- Clearly encourage the reader to consult a doctor for any decisions.
- Be 4-7 short bullet points.

STRICT RULES:
- Do NOT name specific drugs or dosages.
- Do NOT claim to diagnose or cure any disease.
- Do NOT instruct the user to start or stop medications.

%s`, language, promptContext(inputs, score, level, top))

	if text, ok := s.generate(ctx, prompt); ok {
		return text
	}
	return "Consider scheduling an appointment with a qualified healthcare " +
		"professional to review your blood pressure, cholesterol, lifestyle, " +
		"and any symptoms. Bring this assessment result and ask what " +
		"additional tests or monitoring they recommend."
}

// GeneratePrescriptionSummary returns a structured, clinician-facing summary
// of focus areas. It contains no medication names, drug classes or dosages.
func (s *NarrativeService) GeneratePrescriptionSummary(ctx context.Context, inputs map[string]any, score float64, level string, top []models.FeatureAttribution, language string) string {
	prompt := fmt.Sprintf(`You are helping with a heart-health education tool. Based on the following patient data and estimated risk, write a brief, structured summary that a DOCTOR could use as a starting point for their own prescription and management plan.

SAFETY RULES (MUST FOLLOW):
- Do NOT name any medications or drug classes.
- Do NOT suggest any dosages, frequencies, or treatment durations.
- Do NOT instruct the patient to start, stop, or change medication.
- Do NOT claim to diagnose, cure, or prevent disease.
- Keep all content as general topics or areas for the doctor to consider and discuss.

%s

Write the summary in %s with the following sections:

1) Clinical focus areas for the doctor
   - Bulleted list of risk factors or symptoms that may merit review.

2) Lifestyle focus areas
   - General lifestyle domains (e.g., activity, diet patterns, smoking) to discuss, without personalized instructions.

3) Possible follow-up evaluations
   - General examples of tests or referrals a doctor might consider (e.g., further cardiac evaluation), without ordering them.

4) Safety reminder for the patient
   - Short paragraph reinforcing that only their own doctor can prescribe medication, decide on doses, or choose treatment.`,
		promptContext(inputs, score, level, top), language)

	if text, ok := s.generate(ctx, prompt); ok {
		return text
	}
	return "This summary is intended to help structure a discussion with a " +
		"qualified healthcare professional. It does not recommend specific " +
		"medications or doses. Please consult your doctor for any treatment decisions."
}

func explanationFallback(level string, score float64) string {
	return fmt.Sprintf(
		"Your predicted heart disease risk is %s (score: %.2f). This tool is "+
			"for educational use only and cannot provide a medical diagnosis. "+
			"Please discuss any concerns with a qualified healthcare professional.",
		level, score)
}

func lifestyleFallback(level string) []string {
	base := []string{
		"This tool does not give medical advice. For personalized guidance, please consult a doctor.",
	}
	switch level {
	case models.RiskLow:
		base = append(base, "Maintain a heart-healthy lifestyle with regular physical activity, balanced diet, and avoiding smoking.")
	case models.RiskModerate:
		base = append(base, "Consider speaking with a healthcare professional about blood pressure, cholesterol, exercise, and diet goals.")
	default:
		base = append(base, "It may be important to seek professional medical advice to review your risk factors and next steps.")
	}
	return base
}
