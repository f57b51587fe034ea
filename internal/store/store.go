// Package store owns all persisted clinical state. It exposes one
// contract backed by two interchangeable backends: a MySQL database for
// durability and an in-process map used both when no database is
// configured and as a per-call fallback when the database fails at
// runtime. Callers never branch on which backend served them.
package store

import (
	"context"
	"errors"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

// Sentinel errors shared by every backend. Handlers translate these to
// HTTP statuses; the fallback wrapper lets them pass through untouched
// because they describe domain state, not backend health.
var (
	// ErrNotFound is returned when an account, patient or check does
	// not exist.
	ErrNotFound = errors.New("record not found")

	// ErrLoginExists is returned by CreateAccount when the login name
	// is already taken. Both backends enforce the uniqueness themselves
	// (unique index in MySQL, map check under the mutex in memory) so a
	// concurrent double-registration cannot slip through.
	ErrLoginExists = errors.New("login already exists")
)

// Store is the single data-access contract of the application.
// Identifiers are assigned by the store at creation time and are never
// supplied by the caller; create calls are not idempotent and persist a
// new record on every invocation.
type Store interface {
	GetAccountByID(ctx context.Context, id uint64) (model.Account, error)
	GetAccountByLogin(ctx context.Context, login string) (model.Account, error)
	// CreateAccount persists a new account with the default provider
	// role and returns it with its assigned identifier.
	CreateAccount(ctx context.Context, login, passwordHash string) (model.Account, error)

	// ListPatients returns all patient records in insertion order.
	ListPatients(ctx context.Context) ([]model.PatientRecord, error)
	GetPatientByID(ctx context.Context, id uint64) (model.PatientRecord, error)
	CreatePatient(ctx context.Context, p model.NewPatient) (model.PatientRecord, error)

	CreateInteractionCheck(ctx context.Context, c model.NewInteractionCheck) (model.InteractionCheck, error)
	// ListInteractionChecksForPatient returns the checks recorded for
	// exactly this patient id, in creation order. Passing zero lists
	// the exploratory checks not tied to any patient.
	ListInteractionChecksForPatient(ctx context.Context, patientID uint64) ([]model.InteractionCheck, error)
}
