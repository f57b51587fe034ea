package model

import "time"

// ConditionEntry is a single item of a patient's medical history: a
// condition label plus the date it was diagnosed. The date is carried as
// an opaque string because EHR documents report it in wildly different
// formats and the extraction step does not normalize it.
type ConditionEntry struct {
	Condition   string `json:"condition"`
	DiagnosedAt string `json:"diagnosedAt"`
}

// PatientRecord represents a row of the `patients` table. MedicalHistory,
// Medications and EHRData are persisted as JSON columns. EHRData holds
// whatever structured payload the document analyzer produced; its shape is
// defined by the analyzer, not by the store, and is only required to be a
// valid JSON object. Records are immutable after creation.
type PatientRecord struct {
	ID             uint64           `json:"id"`
	Name           string           `json:"name"`
	DateOfBirth    string           `json:"dateOfBirth"`
	MedicalHistory []ConditionEntry `json:"medicalHistory"`
	Medications    []string         `json:"currentMedications"`
	EHRData        map[string]any   `json:"ehrData"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// NewPatient carries the caller-supplied fields of a patient record.
// The identifier and creation timestamp are assigned by the store.
type NewPatient struct {
	Name           string
	DateOfBirth    string
	MedicalHistory []ConditionEntry
	Medications    []string
	EHRData        map[string]any
}
