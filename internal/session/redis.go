// internal/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "kpi-prediction-service/internal/common/errors"
	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/models"
)

const (
	sessionKeyPrefix = "session:"
	scenarioSuffix   = ":scenario"
)

// RedisStore keeps sessions in Redis. Key TTLs implement the inactivity
// timeout, so expiry needs no reaper of its own.
type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
	logger  logger.Logger
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, timeout time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{client: client, timeout: timeout, logger: log}
}

func sessionKey(id string) string  { return sessionKeyPrefix + id }
func scenarioKey(id string) string { return sessionKeyPrefix + id + scenarioSuffix }

// GetOrCreate implements Store.
func (s *RedisStore) GetOrCreate(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID != "" {
		data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
		switch {
		case err == nil:
			var sess models.Session
			if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr == nil {
				sess.Touch()
				if saveErr := s.save(ctx, &sess); saveErr != nil {
					return nil, saveErr
				}
				// Scenario TTL tracks the session's.
				s.client.Expire(ctx, scenarioKey(sessionID), s.timeout)
				return &sess, nil
			}
			// Corrupt payload: fall through and recreate.
			s.logger.Warn("Discarding unreadable session payload", map[string]interface{}{
				"sessionId": sessionID,
			})
		case !errors.Is(err, redis.Nil):
			return nil, apperrors.NewSessionStoreUnavailableError(err)
		}
	}

	sess := &models.Session{
		ID:           newSessionID(sessionID),
		Seed:         newSeed(),
		CreatedAt:    time.Now().UTC(),
		LastActivity: time.Now().UTC(),
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("Created session", map[string]interface{}{
		"sessionId": sess.ID,
		"seed":      sess.Seed,
	})
	return sess, nil
}

func newSessionID(requested string) string {
	if requested != "" {
		return requested
	}
	return uuid.NewString()
}

func (s *RedisStore) save(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), data, s.timeout).Err(); err != nil {
		return apperrors.NewSessionStoreUnavailableError(err)
	}
	return nil
}

// Scenario implements Store.
func (s *RedisStore) Scenario(ctx context.Context, sessionID string) (*models.Scenario, bool, error) {
	data, err := s.client.Get(ctx, scenarioKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewSessionStoreUnavailableError(err)
	}
	var sc models.Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, false, nil
	}
	return &sc, true, nil
}

// ClaimScenario implements Store. SET NX makes the first writer win; every
// later caller reads the winner back.
func (s *RedisStore) ClaimScenario(ctx context.Context, sessionID string, sc *models.Scenario) (*models.Scenario, error) {
	data, err := json.Marshal(sc)
	if err != nil {
		return nil, err
	}
	set, err := s.client.SetNX(ctx, scenarioKey(sessionID), data, s.timeout).Result()
	if err != nil {
		return nil, apperrors.NewSessionStoreUnavailableError(err)
	}
	if set {
		return sc, nil
	}
	existing, found, err := s.Scenario(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		// The winner expired between SETNX and GET; ours is as good as any.
		return sc, nil
	}
	return existing, nil
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context, sessionID string) (*models.Session, error) {
	sess, err := s.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Seed = newSeed()
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.client.Del(ctx, scenarioKey(sess.ID)).Err(); err != nil {
		return nil, apperrors.NewSessionStoreUnavailableError(err)
	}
	s.logger.Info("Reset session", map[string]interface{}{
		"sessionId": sess.ID,
		"seed":      sess.Seed,
	})
	return sess, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID), scenarioKey(sessionID)).Err(); err != nil {
		return apperrors.NewSessionStoreUnavailableError(err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
