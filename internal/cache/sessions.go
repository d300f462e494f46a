package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abhisek/primemath/internal/store"
)

const (
	sessionKeyPrefix = "primemath:session:"

	// DefaultSessionTTL bounds how long a session stays cached.
	DefaultSessionTTL = 30 * time.Minute
)

// SessionRepo decorates a store.SessionRepo with a Redis read-through cache
// for sessions. Sessions never change after creation, so entries are never
// invalidated; they only expire. Submissions always go to the store.
//
// Cache failures are logged and fall back to the store.
type SessionRepo struct {
	store.SessionRepo
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewSessionRepo wraps inner. ttl <= 0 means DefaultSessionTTL.
func NewSessionRepo(inner store.SessionRepo, client *redis.Client, ttl time.Duration, log *zap.Logger) *SessionRepo {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionRepo{SessionRepo: inner, client: client, ttl: ttl, log: log}
}

// CreateSession stores the session and primes the cache with it.
func (r *SessionRepo) CreateSession(ctx context.Context, in store.NewSession) (*store.Session, error) {
	sess, err := r.SessionRepo.CreateSession(ctx, in)
	if err != nil {
		return nil, err
	}
	r.put(ctx, sess)
	return sess, nil
}

// GetSession serves from Redis when possible and fills it on a miss.
func (r *SessionRepo) GetSession(ctx context.Context, id string) (*store.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	switch {
	case err == nil:
		var sess store.Session
		if jsonErr := json.Unmarshal(raw, &sess); jsonErr == nil {
			return &sess, nil
		}
		r.log.Warn("dropping undecodable cached session", zap.String("session_id", id))
		r.client.Del(ctx, sessionKey(id))
	case !errors.Is(err, redis.Nil):
		r.log.Warn("session cache read failed", zap.String("session_id", id), zap.Error(err))
	}

	sess, err := r.SessionRepo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	r.put(ctx, sess)
	return sess, nil
}

func (r *SessionRepo) put(ctx context.Context, sess *store.Session) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, sessionKey(sess.ID), raw, r.ttl).Err(); err != nil {
		r.log.Warn("session cache write failed", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
