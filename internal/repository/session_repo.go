package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry[T any] struct {
	value    T
	lastSeen time.Time
}

// SessionStore keeps page-lifetime sessions in memory. Nothing is written
// anywhere; idle sessions are dropped by EvictIdle.
type SessionStore[T any] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*sessionEntry[T]
	now   func() time.Time
}

func NewSessionStore[T any]() *SessionStore[T] {
	return &SessionStore[T]{
		items: make(map[uuid.UUID]*sessionEntry[T]),
		now:   time.Now,
	}
}

func (s *SessionStore[T]) Put(id uuid.UUID, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = &sessionEntry[T]{value: value, lastSeen: s.now()}
}

// Get returns the session and marks it as seen.
func (s *SessionStore[T]) Get(id uuid.UUID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	return e.value, nil
}

func (s *SessionStore[T]) Exists(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[id]
	return ok
}

// Touch marks the session as seen without reading it. It reports whether
// the session exists.
func (s *SessionStore[T]) Touch(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if ok {
		e.lastSeen = s.now()
	}
	return ok
}

// Update runs fn on the stored value under the store lock and keeps the
// value fn returns.
func (s *SessionStore[T]) Update(id uuid.UUID, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ErrSessionNotFound
	}
	v, err := fn(e.value)
	if err != nil {
		return e.value, err
	}
	e.value = v
	e.lastSeen = s.now()
	return v, nil
}

func (s *SessionStore[T]) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
}

// EvictIdle removes sessions not seen since cutoff and returns how many
// were removed.
func (s *SessionStore[T]) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.items {
		if e.lastSeen.Before(cutoff) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
