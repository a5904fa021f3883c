// internal/pipeline/contextstore/store.go
package contextstore

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	stderrors "mindline-backend/internal/common/errors"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/common/metrics"
	"mindline-backend/internal/models"
)

// Key identifies one conversation context.
type Key struct {
	UserID    string
	SessionID string
}

// String renders the storage key. Sessionless conversations share one
// default session per user.
func (k Key) String() string {
	session := k.SessionID
	if session == "" {
		session = "default"
	}
	return "chat:ctx:" + k.UserID + ":" + session
}

// Store holds bounded, ordered conversation windows. Get returns at most
// the window size, oldest first. Eviction beyond the window (TTL etc.)
// is the backing store's concern.
type Store interface {
	Get(ctx context.Context, key Key) ([]models.ConversationTurn, error)
	Append(ctx context.Context, key Key, turn models.ConversationTurn) error
}

const lockShards = 64

// Manager fronts a durable store with an in-memory fallback. Per-key
// striped locks serialize read-modify-append for the same conversation;
// the fallback is transparent to callers apart from weaker durability,
// and an outage is logged exactly once until the primary recovers.
type Manager struct {
	primary  Store
	fallback *Memory
	logger   logger.Logger
	degraded atomic.Bool
	locks    [lockShards]sync.Mutex
}

func NewManager(primary Store, fallback *Memory, log logger.Logger) *Manager {
	return &Manager{
		primary:  primary,
		fallback: fallback,
		logger:   log.With(map[string]interface{}{"component": "context-store"}),
	}
}

func (m *Manager) lockFor(key Key) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key.String()))
	return &m.locks[h.Sum32()%lockShards]
}

// Get returns the conversation window for a key.
func (m *Manager) Get(ctx context.Context, key Key) ([]models.ConversationTurn, error) {
	if m.primary != nil {
		turns, err := m.primary.Get(ctx, key)
		if err == nil {
			m.markRecovered()
			return turns, nil
		}
		m.markDegraded(err)
	}

	metrics.ContextStoreFallback.Inc()
	return m.fallback.Get(ctx, key)
}

// Append adds one turn to the window. The per-key lock makes the
// read-modify-append atomic with respect to concurrent requests on the
// same conversation.
func (m *Manager) Append(ctx context.Context, key Key, turn models.ConversationTurn) error {
	lock := m.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	// The fallback mirrors every append so a later outage starts from a
	// warm window instead of an empty one.
	_ = m.fallback.Append(ctx, key, turn)

	if m.primary == nil {
		return nil
	}

	if err := m.primary.Append(ctx, key, turn); err != nil {
		m.markDegraded(err)
		metrics.ContextStoreFallback.Inc()
		return nil
	}
	m.markRecovered()
	return nil
}

func (m *Manager) markDegraded(err error) {
	if m.degraded.CompareAndSwap(false, true) {
		m.logger.WithError(stderrors.NewContextStoreUnavailableError(err)).Warn(
			"durable context store unreachable, serving from in-memory fallback", nil)
	}
}

func (m *Manager) markRecovered() {
	if m.degraded.CompareAndSwap(true, false) {
		m.logger.Info("durable context store recovered", nil)
	}
}
