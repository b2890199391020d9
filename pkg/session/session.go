// Package session keeps per-viewer gallery state for the preview server.
//
// A session remembers which image a visitor's lightbox is focused on and the
// language they browse in, so that server-rendered navigation (POST
// /gallery/next and friends) survives between requests without client-side
// script. Sessions are identified by a random uuid carried in a cookie and
// expire after a TTL.
//
// Implementations:
//   - MemoryStore: in-process map for a single server instance
//   - FileStore: JSON files on disk, survives restarts
//   - CacheStore: any [cache.Cache] backend (Redis, MongoDB) for
//     multi-instance deployments
//
// # Usage
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    sess = session.New(session.DefaultTTL)
//	}
//	nav := sess.Navigator(gallery.Images(records), nil)
//	nav.Next()
//	sess.Save(nav)
//	store.Set(ctx, sess)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/itsuki/garden/pkg/cache"
	"github.com/itsuki/garden/pkg/config"
	"github.com/itsuki/garden/pkg/gallery"
)

// DefaultTTL is the default session duration.
const DefaultTTL = cache.SessionTTL

// Session is one viewer's gallery state.
type Session struct {
	ID        string    `json:"id"`
	Focus     int       `json:"focus"`
	Lang      string    `json:"lang"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Navigator returns a navigator over seq focused where the session left
// off. A stored focus that no longer fits seq starts inactive. onChange,
// when non-nil, observes transitions after the focus is restored.
func (s *Session) Navigator(seq gallery.Sequence, onChange func(gallery.Transition)) *gallery.Navigator {
	restoring := true
	nav := gallery.NewNavigator(seq, gallery.WithOnChange(func(t gallery.Transition) {
		if !restoring && onChange != nil {
			onChange(t)
		}
	}))
	nav.Activate(s.Focus)
	restoring = false
	return nav
}

// Save records the navigator's focus in the session.
func (s *Session) Save(nav *gallery.Navigator) {
	s.Focus = nav.Focused()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op when the backend
	// expires keys itself).
	Cleanup(ctx context.Context) error
}

// GenerateID returns a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape GenerateID produces. Stores
// reject anything else so IDs can be used in file names and cache keys.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// New creates an inactive session in the default language.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		Focus:     gallery.Inactive,
		Lang:      config.DefaultLang,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
