package authstate

import (
	"sync"
)

// Listener is called synchronously after every transition, with the store's
// lock released.
type Listener func(state State, version uint64)

// Store owns one visitor's State. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	state     State
	version   uint64
	listeners []Listener
}

// NewStore starts from a previously persisted state and version.
func NewStore(state State, version uint64) *Store {
	if state.Status == "" {
		state = Initial()
	}
	return &Store{state: state, version: version}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l for every subsequent transition.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Dispatch applies e and notifies listeners. It returns the new state.
func (s *Store) Dispatch(e Event) State {
	s.mu.Lock()
	s.state = Reduce(s.state, e)
	s.version++
	next, version := s.state, s.version
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(next, version)
	}
	return next
}
