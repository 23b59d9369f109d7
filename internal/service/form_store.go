package service

import (
	"fmt"
	"sync"

	"github.com/noah-isme/research-guide-api/internal/models"
)

// FormListener observes every applied mutation with the resulting state.
type FormListener func(state models.FormState)

// FormStore holds the single mutable FormState of a session.
//
// Listeners run synchronously, in registration order, while the store is
// locked, so they observe mutations in exactly the order they were applied.
// A listener must not call back into the store.
type FormStore struct {
	mu        sync.Mutex
	state     models.FormState
	listeners []FormListener
}

// NewFormStore returns a store seeded with initial.
func NewFormStore(initial models.FormState) *FormStore {
	return &FormStore{state: initial.Normalize()}
}

// OnChange registers a listener for subsequent mutations.
func (s *FormStore) OnChange(listener FormListener) {
	if listener == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Snapshot returns a copy of the current state.
func (s *FormStore) Snapshot() models.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetField replaces one field. Unknown fields are a programming error and panic.
func (s *FormStore) SetField(field models.Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.state.With(field, value)
	if !ok {
		panic(fmt.Sprintf("service: unknown form field %q", field))
	}
	s.apply(next)
}

// ToggleChecklist flips one checklist flag. Unknown keys leave the state untouched.
func (s *FormStore) ToggleChecklist(key models.ChecklistKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state
	if !next.Checklist.Toggle(key) {
		return
	}
	s.apply(next)
}

// ReplaceAll swaps the whole state.
func (s *FormStore) ReplaceAll(state models.FormState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(state.Normalize())
}

func (s *FormStore) apply(next models.FormState) {
	s.state = next
	for _, listener := range s.listeners {
		listener(next)
	}
}
