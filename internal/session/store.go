// internal/session/store.go

// Package session persists per-caller design-session state: a fixed seed and
// the scenario generated from it. Two backends exist, Redis for shared
// deployments and an in-process map for standalone ones. Sessions idle past
// the configured timeout expire; expiry is best effort and only ever costs
// the caller a fresh session.
package session

import (
	"context"
	"math/rand"

	"kpi-prediction-service/internal/models"
)

// Store is the session backend contract. Per-session operations are atomic:
// two concurrent requests against one session must never observe two
// different scenarios.
type Store interface {
	// GetOrCreate returns the session with the given ID, creating it (with a
	// fresh random seed) when missing or expired, and refreshes its
	// inactivity window. An empty ID always creates a new session.
	GetOrCreate(ctx context.Context, sessionID string) (*models.Session, error)

	// Scenario returns the session's cached scenario, if any.
	Scenario(ctx context.Context, sessionID string) (*models.Scenario, bool, error)

	// ClaimScenario installs sc as the session's scenario unless one is
	// already cached, and returns whichever scenario won. Losing a claim is
	// normal under concurrency, not an error.
	ClaimScenario(ctx context.Context, sessionID string, sc *models.Scenario) (*models.Scenario, error)

	// Reset rerolls the session's seed and drops its cached scenario.
	Reset(ctx context.Context, sessionID string) (*models.Session, error)

	// Delete removes the session and its scenario.
	Delete(ctx context.Context, sessionID string) error

	// Close releases backend resources.
	Close() error
}

func newSeed() int64 {
	// Only reproducibility within a session matters, not secrecy.
	return rand.Int63()
}
