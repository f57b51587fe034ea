package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

// knownInteractions is a small reference table of well-documented drug
// pairs. Keys are the two lower-cased names joined by "+" in sorted
// order. It exists so the application remains demonstrable without an
// API key; it is not clinical advice.
var knownInteractions = map[string]model.InteractionFinding{
	"aspirin+warfarin": {
		Severity:    model.SeverityMajor,
		Description: "Concurrent use increases bleeding risk through combined anticoagulant and antiplatelet effects.",
	},
	"lisinopril+potassium chloride": {
		Severity:    model.SeverityModerate,
		Description: "ACE inhibitors reduce potassium excretion; supplementation can cause hyperkalemia.",
	},
	"clarithromycin+simvastatin": {
		Severity:    model.SeverityMajor,
		Description: "CYP3A4 inhibition raises statin exposure and the risk of rhabdomyolysis.",
	},
	"ibuprofen+lisinopril": {
		Severity:    model.SeverityModerate,
		Description: "NSAIDs blunt the antihypertensive effect of ACE inhibitors and add renal strain.",
	},
	"fluoxetine+tramadol": {
		Severity:    model.SeverityMajor,
		Description: "Combined serotonergic activity carries a risk of serotonin syndrome.",
	},
}

// Mock is the deterministic analyzer used when no API key is configured.
// Identical inputs always produce identical outputs, which also makes it
// the test double of choice for handler tests.
type Mock struct{}

// NewMock returns the offline analyzer.
func NewMock() *Mock { return &Mock{} }

func (m *Mock) ExtractStructuredData(_ context.Context, document string) (ExtractionResult, error) {
	return ExtractionResult{
		MedicalHistory: nil,
		Medications:    nil,
		Data: map[string]any{
			"analyzer":       "offline",
			"documentLength": len(document),
			"note":           "structured extraction requires a configured language model API key",
		},
	}, nil
}

func (m *Mock) DetectInteractions(_ context.Context, medications []string) ([]model.InteractionFinding, error) {
	var findings []model.InteractionFinding
	for i := 0; i < len(medications); i++ {
		for j := i + 1; j < len(medications); j++ {
			a := strings.ToLower(strings.TrimSpace(medications[i]))
			b := strings.ToLower(strings.TrimSpace(medications[j]))
			pair := []string{a, b}
			sort.Strings(pair)
			if f, ok := knownInteractions[pair[0]+"+"+pair[1]]; ok {
				f.DrugA = pair[0]
				f.DrugB = pair[1]
				findings = append(findings, f)
			}
		}
	}
	return findings, nil
}

func (m *Mock) RecommendTreatment(_ context.Context, condition string, medications []string) (Recommendation, error) {
	rec := Recommendation{
		Recommendations: []string{
			fmt.Sprintf("Review current clinical guidelines for %s before prescribing.", condition),
			"Confirm diagnosis and severity with the treating physician.",
		},
		Warnings: []string{
			"Offline analyzer active: output is generic and not patient-specific.",
		},
		References: []string{
			"Institutional formulary and local prescribing guidance.",
		},
	}
	if len(medications) > 0 {
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("Check any new agent against current medications (%s) for interactions.",
				strings.Join(medications, ", ")))
	}
	return rec, nil
}
