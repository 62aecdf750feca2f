// internal/session/memory.go
package session

import (
	"context"
	"sync"
	"time"

	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/common/metrics"
	"kpi-prediction-service/internal/models"
)

type memoryEntry struct {
	session  models.Session
	scenario *models.Scenario
}

// MemoryStore is the in-process session backend for standalone deployments.
// A single mutex is enough at this scale and makes per-session atomicity
// trivial.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	timeout time.Duration
	logger  logger.Logger
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(timeout time.Duration, log logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		timeout: timeout,
		logger:  log,
	}
}

// GetOrCreate implements Store.
func (s *MemoryStore) GetOrCreate(_ context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID != "" {
		if entry, ok := s.entries[sessionID]; ok && !entry.session.IsExpired(s.timeout) {
			entry.session.Touch()
			sess := entry.session
			return &sess, nil
		}
	}

	sess := models.Session{
		ID:           newSessionID(sessionID),
		Seed:         newSeed(),
		CreatedAt:    time.Now().UTC(),
		LastActivity: time.Now().UTC(),
	}
	s.entries[sess.ID] = &memoryEntry{session: sess}
	metrics.SessionsActive.Set(float64(len(s.entries)))
	s.logger.Info("Created session", map[string]interface{}{
		"sessionId": sess.ID,
		"seed":      sess.Seed,
	})
	return &sess, nil
}

// Scenario implements Store.
func (s *MemoryStore) Scenario(_ context.Context, sessionID string) (*models.Scenario, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok || entry.session.IsExpired(s.timeout) || entry.scenario == nil {
		return nil, false, nil
	}
	sc := *entry.scenario
	return &sc, true, nil
}

// ClaimScenario implements Store.
func (s *MemoryStore) ClaimScenario(_ context.Context, sessionID string, sc *models.Scenario) (*models.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok || entry.session.IsExpired(s.timeout) {
		// Session vanished under us; the caller's scenario stands alone.
		return sc, nil
	}
	if entry.scenario != nil {
		existing := *entry.scenario
		return &existing, nil
	}
	claimed := *sc
	entry.scenario = &claimed
	return sc, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	entry, ok := s.entries[sessionID]
	if ok && !entry.session.IsExpired(s.timeout) {
		entry.session.Seed = newSeed()
		entry.session.Touch()
		entry.scenario = nil
		sess := entry.session
		s.mu.Unlock()
		s.logger.Info("Reset session", map[string]interface{}{
			"sessionId": sess.ID,
			"seed":      sess.Seed,
		})
		return &sess, nil
	}
	s.mu.Unlock()
	return s.GetOrCreate(ctx, sessionID)
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	metrics.SessionsActive.Set(float64(len(s.entries)))
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}

// ReapExpired drops every session idle past the timeout and returns how many
// were removed.
func (s *MemoryStore) ReapExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	for id, entry := range s.entries {
		if entry.session.IsExpired(s.timeout) {
			delete(s.entries, id)
			reaped++
		}
	}
	if reaped > 0 {
		metrics.SessionsActive.Set(float64(len(s.entries)))
		s.logger.Debug("Reaped expired sessions", map[string]interface{}{
			"count": reaped,
		})
	}
	return reaped
}

// StartReaper runs ReapExpired on the given interval until ctx is cancelled.
func (s *MemoryStore) StartReaper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ReapExpired()
			}
		}
	}()
}
