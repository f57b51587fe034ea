package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

// Memory is the in-process backend. It keeps every entity in an
// insertion-ordered slice guarded by a single mutex, with sequential
// identifiers starting at 1 per entity type. Echo serves requests from
// multiple goroutines, so unlike a single-threaded event loop the counter
// and the slices must be protected or two concurrent creates could be
// assigned the same id.
type Memory struct {
	mu sync.Mutex

	accounts     []model.Account
	accountIdx   map[string]int // lower-cased login -> index into accounts
	patients     []model.PatientRecord
	checks       []model.InteractionCheck
	nextAccount  uint64
	nextPatient  uint64
	nextCheck    uint64
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		accountIdx:  map[string]int{},
		nextAccount: 1,
		nextPatient: 1,
		nextCheck:   1,
	}
}

func (m *Memory) GetAccountByID(_ context.Context, id uint64) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Account{}, ErrNotFound
}

func (m *Memory) GetAccountByLogin(_ context.Context, login string) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.accountIdx[normalizeLogin(login)]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return m.accounts[i], nil
}

func (m *Memory) CreateAccount(_ context.Context, login, passwordHash string) (model.Account, error) {
	login = normalizeLogin(login)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accountIdx[login]; ok {
		return model.Account{}, ErrLoginExists
	}
	a := model.Account{
		ID:           m.nextAccount,
		Login:        login,
		PasswordHash: passwordHash,
		Role:         model.RoleProvider,
		CreatedAt:    time.Now().UTC(),
	}
	m.nextAccount++
	m.accountIdx[login] = len(m.accounts)
	m.accounts = append(m.accounts, a)
	return a, nil
}

func (m *Memory) ListPatients(_ context.Context) ([]model.PatientRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PatientRecord, len(m.patients))
	copy(out, m.patients)
	return out, nil
}

func (m *Memory) GetPatientByID(_ context.Context, id uint64) (model.PatientRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return model.PatientRecord{}, ErrNotFound
}

func (m *Memory) CreatePatient(_ context.Context, np model.NewPatient) (model.PatientRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := model.PatientRecord{
		ID:             m.nextPatient,
		Name:           np.Name,
		DateOfBirth:    np.DateOfBirth,
		MedicalHistory: np.MedicalHistory,
		Medications:    np.Medications,
		EHRData:        np.EHRData,
		CreatedAt:      time.Now().UTC(),
	}
	m.nextPatient++
	m.patients = append(m.patients, p)
	return p, nil
}

func (m *Memory) CreateInteractionCheck(_ context.Context, nc model.NewInteractionCheck) (model.InteractionCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := model.InteractionCheck{
		ID:          m.nextCheck,
		PatientID:   nc.PatientID,
		Medications: nc.Medications,
		Findings:    nc.Findings,
		CheckedAt:   time.Now().UTC(),
	}
	m.nextCheck++
	m.checks = append(m.checks, c)
	return c, nil
}

func (m *Memory) ListInteractionChecksForPatient(_ context.Context, patientID uint64) ([]model.InteractionCheck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.InteractionCheck
	for _, c := range m.checks {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
