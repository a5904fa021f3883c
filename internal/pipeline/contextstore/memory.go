// internal/pipeline/contextstore/memory.go
package contextstore

import (
	"context"
	"sync"

	"mindline-backend/internal/models"
)

// Memory is the bounded in-process store used when the durable store is
// unreachable (and as its warm mirror). Windows are FIFO-bounded per
// key; the key space itself is bounded, evicting the oldest
// conversation when full.
type Memory struct {
	mu      sync.Mutex
	turns   map[string][]models.ConversationTurn
	order   []string
	window  int
	maxKeys int
}

func NewMemory(window, maxKeys int) *Memory {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &Memory{
		turns:   make(map[string][]models.ConversationTurn),
		window:  window,
		maxKeys: maxKeys,
	}
}

func (m *Memory) Get(ctx context.Context, key Key) ([]models.ConversationTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.turns[key.String()]
	out := make([]models.ConversationTurn, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *Memory) Append(ctx context.Context, key Key, turn models.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key.String()
	if _, exists := m.turns[k]; !exists {
		if len(m.order) >= m.maxKeys {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.turns, oldest)
		}
		m.order = append(m.order, k)
	}

	window := append(m.turns[k], turn)
	if len(window) > m.window {
		window = window[len(window)-m.window:]
	}
	m.turns[k] = window
	return nil
}
