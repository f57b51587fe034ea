package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

// Fallback composes the durable backend with the in-process one. Every
// call goes to the durable backend first; on a transport failure the call
// is logged and served from memory instead, without writing through to
// the durable backend afterward. The two backends can therefore diverge
// while the database is flaky; operators see a warn log per degraded call
// and must treat reads as best-effort during such windows. Domain errors
// (ErrNotFound, ErrLoginExists) describe state, not backend health, and
// never trigger the fallback.
//
// When constructed without a durable backend (nil), every call is served
// from memory and identifiers are assigned sequentially from 1.
type Fallback struct {
	durable Store
	memory  *Memory
	log     zerolog.Logger
}

// NewFallback builds the composed store. durable may be nil when no
// database is configured.
func NewFallback(durable Store, log zerolog.Logger) *Fallback {
	return &Fallback{durable: durable, memory: NewMemory(), log: log}
}

// Degraded reports whether the store is running without a durable
// backend at all. Used by the health endpoint.
func (f *Fallback) Degraded() bool { return f.durable == nil }

func isDomainErr(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrLoginExists)
}

func (f *Fallback) warn(op string, err error) {
	f.log.Warn().Err(err).Str("op", op).Msg("durable store failed, serving from memory")
}

func (f *Fallback) GetAccountByID(ctx context.Context, id uint64) (model.Account, error) {
	if f.durable != nil {
		a, err := f.durable.GetAccountByID(ctx, id)
		if err == nil || isDomainErr(err) {
			return a, err
		}
		f.warn("get_account_by_id", err)
	}
	return f.memory.GetAccountByID(ctx, id)
}

func (f *Fallback) GetAccountByLogin(ctx context.Context, login string) (model.Account, error) {
	if f.durable != nil {
		a, err := f.durable.GetAccountByLogin(ctx, login)
		if err == nil || isDomainErr(err) {
			return a, err
		}
		f.warn("get_account_by_login", err)
	}
	return f.memory.GetAccountByLogin(ctx, login)
}

func (f *Fallback) CreateAccount(ctx context.Context, login, passwordHash string) (model.Account, error) {
	if f.durable != nil {
		a, err := f.durable.CreateAccount(ctx, login, passwordHash)
		if err == nil || isDomainErr(err) {
			return a, err
		}
		f.warn("create_account", err)
	}
	return f.memory.CreateAccount(ctx, login, passwordHash)
}

func (f *Fallback) ListPatients(ctx context.Context) ([]model.PatientRecord, error) {
	if f.durable != nil {
		ps, err := f.durable.ListPatients(ctx)
		if err == nil {
			return ps, nil
		}
		f.warn("list_patients", err)
	}
	return f.memory.ListPatients(ctx)
}

func (f *Fallback) GetPatientByID(ctx context.Context, id uint64) (model.PatientRecord, error) {
	if f.durable != nil {
		p, err := f.durable.GetPatientByID(ctx, id)
		if err == nil || isDomainErr(err) {
			return p, err
		}
		f.warn("get_patient_by_id", err)
	}
	return f.memory.GetPatientByID(ctx, id)
}

func (f *Fallback) CreatePatient(ctx context.Context, np model.NewPatient) (model.PatientRecord, error) {
	if f.durable != nil {
		p, err := f.durable.CreatePatient(ctx, np)
		if err == nil {
			return p, nil
		}
		f.warn("create_patient", err)
	}
	return f.memory.CreatePatient(ctx, np)
}

func (f *Fallback) CreateInteractionCheck(ctx context.Context, nc model.NewInteractionCheck) (model.InteractionCheck, error) {
	if f.durable != nil {
		c, err := f.durable.CreateInteractionCheck(ctx, nc)
		if err == nil {
			return c, nil
		}
		f.warn("create_interaction_check", err)
	}
	return f.memory.CreateInteractionCheck(ctx, nc)
}

func (f *Fallback) ListInteractionChecksForPatient(ctx context.Context, patientID uint64) ([]model.InteractionCheck, error) {
	if f.durable != nil {
		cs, err := f.durable.ListInteractionChecksForPatient(ctx, patientID)
		if err == nil {
			return cs, nil
		}
		f.warn("list_interaction_checks", err)
	}
	return f.memory.ListInteractionChecksForPatient(ctx, patientID)
}
