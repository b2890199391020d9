package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itsuki/garden/pkg/cache"
	"github.com/itsuki/garden/pkg/errors"
	"github.com/itsuki/garden/pkg/observability"
)

// CacheStore keeps sessions in a [cache.Cache], relying on the backend's
// expiry for cleanup. Use it with Redis or MongoDB so several server
// instances share sessions.
type CacheStore struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewCacheStore wraps c. A nil keyer uses the default keys.
func NewCacheStore(c cache.Cache, keyer cache.Keyer) *CacheStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CacheStore{cache: c, keyer: keyer}
}

func (s *CacheStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	if !ValidID(sessionID) {
		return nil, nil
	}
	data, ok, err := s.cache.Get(ctx, s.keyer.SessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, "session")
		return nil, nil
	}
	observability.Cache().OnCacheHit(ctx, "session")

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

func (s *CacheStore) Set(ctx context.Context, sess *Session) error {
	if !ValidID(sess.ID) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid session id %q", sess.ID)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, s.keyer.SessionKey(sess.ID), data, ttl); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, "session", len(data))
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, sessionID string) error {
	if !ValidID(sessionID) {
		return nil
	}
	return s.cache.Delete(ctx, s.keyer.SessionKey(sessionID))
}

// Cleanup is a no-op: entries carry a TTL in the backend.
func (s *CacheStore) Cleanup(ctx context.Context) error { return nil }

var _ Store = (*CacheStore)(nil)
