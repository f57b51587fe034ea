// Package ai defines the clinical text analyzer capability and its two
// implementations: a live client speaking to the Gemini REST API and a
// deterministic mock used when no API key is configured. The choice is
// made once at startup; business logic only sees the interface.
package ai

import (
	"context"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

// ExtractionResult is the structured output of parsing an EHR document.
// Data carries whatever additional structure the analyzer produced; it is
// stored opaquely on the patient record.
type ExtractionResult struct {
	MedicalHistory []model.ConditionEntry `json:"medicalHistory"`
	Medications    []string               `json:"currentMedications"`
	Data           map[string]any         `json:"data"`
}

// Recommendation is the treatment advice produced for a condition in the
// context of the patient's current medications.
type Recommendation struct {
	Recommendations []string `json:"recommendations"`
	Warnings        []string `json:"warnings"`
	References      []string `json:"references"`
}

// ClinicalTextAnalyzer is the capability the application delegates all
// medical reasoning to. Implementations must be safe for concurrent use;
// calls may block for the duration of a remote generation and must honor
// the context.
type ClinicalTextAnalyzer interface {
	ExtractStructuredData(ctx context.Context, document string) (ExtractionResult, error)
	DetectInteractions(ctx context.Context, medications []string) ([]model.InteractionFinding, error)
	RecommendTreatment(ctx context.Context, condition string, medications []string) (Recommendation, error)
}
