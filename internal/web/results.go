package web

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// StoredResult keeps one conversion's download payloads in memory until the
// client fetches them or the TTL evicts them. Results are session-scoped;
// nothing is persisted.
type StoredResult struct {
	Passthrough []byte
	Fulfillment []byte
	Matched     int
	Converted   int
	CreatedAt   time.Time
}

type ResultStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	results map[string]StoredResult
}

func NewResultStore(ttl time.Duration) *ResultStore {
	return &ResultStore{
		ttl:     ttl,
		now:     time.Now,
		results: make(map[string]StoredResult),
	}
}

func (s *ResultStore) Put(result StoredResult) string {
	token := newToken()
	result.CreatedAt = s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	s.results[token] = result
	return token
}

func (s *ResultStore) Get(token string) (StoredResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()
	result, ok := s.results[token]
	return result, ok
}

func (s *ResultStore) evictLocked() {
	cutoff := s.now().Add(-s.ttl)
	for token, result := range s.results {
		if result.CreatedAt.Before(cutoff) {
			delete(s.results, token)
		}
	}
}

func newToken() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(b[:])
}
