// Package session keeps per-visitor transient state. Nothing here is durable.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is keyed per session; values never leak between session ids.
type Store interface {
	Get(sessionID, key string) (any, bool)
	Set(sessionID, key string, value any)
	Clear(sessionID, key string)
	// Take atomically reads and removes key.
	Take(sessionID, key string) (any, bool)
	// Update runs fn under the session lock. fn returns the next value and whether to keep it;
	// a non-nil error leaves the stored value untouched.
	Update(sessionID, key string, fn func(current any, ok bool) (any, bool, error)) error
}

type entry struct {
	values   map[string]any
	lastSeen time.Time
}

// MemoryStore is an in-process Store with idle expiry.
type MemoryStore struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	idleTimeout time.Duration
	now         func() time.Time
}

func NewMemoryStore(idleTimeout time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]*entry),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// touch returns the live entry for id, creating it when create is set. Callers hold mu.
func (s *MemoryStore) touch(id string, create bool) *entry {
	now := s.now()
	e, ok := s.sessions[id]
	if ok && s.expired(e, now) {
		delete(s.sessions, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		e = &entry{values: make(map[string]any)}
		s.sessions[id] = e
	}
	e.lastSeen = now
	return e
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return s.idleTimeout > 0 && now.Sub(e.lastSeen) > s.idleTimeout
}

func (s *MemoryStore) Get(sessionID, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(sessionID, false)
	if e == nil {
		return nil, false
	}
	v, ok := e.values[key]
	return v, ok
}

func (s *MemoryStore) Set(sessionID, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(sessionID, true).values[key] = value
}

func (s *MemoryStore) Clear(sessionID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.touch(sessionID, false); e != nil {
		delete(e.values, key)
	}
}

func (s *MemoryStore) Take(sessionID, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(sessionID, false)
	if e == nil {
		return nil, false
	}
	v, ok := e.values[key]
	delete(e.values, key)
	return v, ok
}

func (s *MemoryStore) Update(sessionID, key string, fn func(current any, ok bool) (any, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(sessionID, true)
	cur, ok := e.values[key]
	next, keep, err := fn(cur, ok)
	if err != nil {
		return err
	}
	if keep {
		e.values[key] = next
	} else {
		delete(e.values, key)
	}
	return nil
}

// Destroy drops every value held for sessionID.
func (s *MemoryStore) Destroy(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Sweep removes sessions idle past the timeout and reports how many were dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
