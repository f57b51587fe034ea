// Package queue defines message payloads exchanged over the message
// broker. Events carry enough context for downstream consumers (audit
// log, analytics) to act without querying the primary store, but never
// include credentials or raw EHR text.
package queue

// Queue names used on the default exchange.
const (
	PatientCreatedQueue     = "patient.created"
	InteractionCheckedQueue = "interaction.checked"
)

// PatientCreatedEvent is published after a patient record is stored.
type PatientCreatedEvent struct {
	EventID         string `json:"event_id"`
	PatientID       uint64 `json:"patient_id"`
	AccountID       uint64 `json:"account_id"`
	Name            string `json:"name"`
	MedicationCount int    `json:"medication_count"`
	CreatedAt       string `json:"created_at"`
}

// InteractionCheckedEvent is published after a drug-interaction check is
// stored, whether or not findings were flagged.
type InteractionCheckedEvent struct {
	EventID      string   `json:"event_id"`
	CheckID      uint64   `json:"check_id"`
	PatientID    uint64   `json:"patient_id"`
	AccountID    uint64   `json:"account_id"`
	Medications  []string `json:"medications"`
	FindingCount int      `json:"finding_count"`
	CheckedAt    string   `json:"checked_at"`
}
