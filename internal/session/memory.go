package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/utils"
)

type memoryEntry struct {
	accountID uint64
	expiresAt time.Time
}

// Memory is the in-process session store used when Redis is not
// reachable. Expired entries are dropped lazily on resolve.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry // token hash -> entry
	now     func() time.Time
}

// NewMemory returns an empty in-process session store.
func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *Memory) Create(_ context.Context, accountID uint64, ttl time.Duration) (string, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[utils.HashToken(token)] = memoryEntry{
		accountID: accountID,
		expiresAt: m.now().Add(ttl),
	}
	return token, nil
}

func (m *Memory) Resolve(_ context.Context, token string) (uint64, error) {
	hash := utils.HashToken(token)
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[hash]
	if !ok {
		return 0, ErrNoSession
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, hash)
		return 0, ErrNoSession
	}
	return e.accountID, nil
}

func (m *Memory) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, utils.HashToken(token))
	return nil
}
