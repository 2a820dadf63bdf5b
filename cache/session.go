package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SessionStore remembers revoked access tokens until they would have expired
// anyway. Signing out revokes the token id carried by the session.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemorySessionStore keeps revocations in a mutex guarded map.
type MemorySessionStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // tokenID -> expiry
	now     func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke is idempotent; revoking the same token again keeps the later expiry.
func (s *MemorySessionStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.revoked[tokenID]; !ok || expiresAt.After(cur) {
		s.revoked[tokenID] = expiresAt
	}
	return nil
}

func (s *MemorySessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.revoked[tokenID]
	return ok && s.now().Before(exp), nil
}

// Sweep drops revocations whose token has expired and returns how many were
// removed.
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, exp := range s.revoked {
		if !now.Before(exp) {
			delete(s.revoked, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked revocations.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (s *MemorySessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					slog.Info("swept expired session revocations", "removed", n, "remaining", s.Len())
				}
			}
		}
	}()
}
