package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

func TestMemory_CreatePatientAssignsIncreasingIDs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var last uint64
	for i := 0; i < 5; i++ {
		p, err := m.CreatePatient(ctx, model.NewPatient{Name: "Jane Doe", DateOfBirth: "1985-06-15"})
		require.NoError(t, err)
		assert.Greater(t, p.ID, last)
		last = p.ID
	}
	assert.Equal(t, uint64(5), last)

	first, err := m.GetPatientByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestMemory_CreateAccountRejectsDuplicateLogin(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, err := m.CreateAccount(ctx, "alice", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, model.RoleProvider, a.Role)

	_, err = m.CreateAccount(ctx, "alice", "hash-2")
	assert.ErrorIs(t, err, ErrLoginExists)

	// Login matching is case-insensitive, so this is the same account.
	_, err = m.CreateAccount(ctx, "  ALICE ", "hash-3")
	assert.ErrorIs(t, err, ErrLoginExists)

	got, err := m.GetAccountByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got.PasswordHash, "duplicate create must not overwrite")
}

func TestMemory_GetAccountAbsent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetAccountByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.GetAccountByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ListPatientsInsertionOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, n := range names {
		_, err := m.CreatePatient(ctx, model.NewPatient{Name: n})
		require.NoError(t, err)
	}

	patients, err := m.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 3)
	for i, n := range names {
		assert.Equal(t, n, patients[i].Name)
	}
}

func TestMemory_ListChecksFiltersByPatient(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	mk := func(pid uint64, meds ...string) model.InteractionCheck {
		c, err := m.CreateInteractionCheck(ctx, model.NewInteractionCheck{PatientID: pid, Medications: meds})
		require.NoError(t, err)
		return c
	}
	c1 := mk(7, "warfarin", "aspirin")
	mk(8, "ibuprofen")
	c3 := mk(7, "lisinopril")
	mk(0, "exploratory")

	checks, err := m.ListInteractionChecksForPatient(ctx, 7)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, c1.ID, checks[0].ID)
	assert.Equal(t, c3.ID, checks[1].ID)

	// The zero sentinel lists only exploratory checks.
	exploratory, err := m.ListInteractionChecksForPatient(ctx, 0)
	require.NoError(t, err)
	require.Len(t, exploratory, 1)
	assert.Equal(t, []string{"exploratory"}, exploratory[0].Medications)
}
