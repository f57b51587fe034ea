package model

import "time"

// Severity levels reported for a drug pair. The analyzer is prompted to
// answer with one of these; anything else is passed through verbatim.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeverityMajor    = "major"
)

// InteractionFinding flags one pair of medications with an assessed risk
// level and a free-text explanation.
type InteractionFinding struct {
	DrugA       string `json:"drugA"`
	DrugB       string `json:"drugB"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// InteractionCheck is a persisted result of a drug-interaction query, a
// row of the `interaction_checks` table. PatientID is zero for exploratory
// checks that are not tied to a stored patient. Immutable once created.
type InteractionCheck struct {
	ID          uint64               `json:"id"`
	PatientID   uint64               `json:"patientId"`
	Medications []string             `json:"medications"`
	Findings    []InteractionFinding `json:"findings"`
	CheckedAt   time.Time            `json:"checkedAt"`
}

// NewInteractionCheck carries the caller-supplied fields of a check; the
// store assigns the identifier and the checked-at timestamp.
type NewInteractionCheck struct {
	PatientID   uint64
	Medications []string
	Findings    []InteractionFinding
}
