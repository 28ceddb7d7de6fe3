package statemachine

import (
	"fmt"
	"sync"
)

// StateFn represents a state function following Rob Pike's pattern
type StateFn[T any] func(*T) StateFn[T]

// StateMachine is a simple, thread-safe state machine wrapper following Rob Pike's pattern
// State functions are the states themselves, and each returns the next state function
type StateMachine[T any] struct {
	entity  *T           // Reference to the entity
	stateFn StateFn[T]   // Current state function
	mutex   sync.RWMutex // Thread safety
}

// NewStateMachine creates a new state machine for the given entity
func NewStateMachine[T any](entity *T, initialStateFn StateFn[T]) *StateMachine[T] {
	return &StateMachine[T]{
		entity:  entity,
		stateFn: initialStateFn,
	}
}

// Dispatch calls the given state function once and transitions to the returned state
func (sm *StateMachine[T]) Dispatch(stateFn StateFn[T]) {
	sm.mutex.Lock()
	sm.stateFn = stateFn
	sm.mutex.Unlock()

	if stateFn == nil {
		return
	}

	// Execute the state function to get the next state
	nextStateFn := stateFn(sm.entity)

	sm.mutex.Lock()
	sm.stateFn = nextStateFn
	sm.mutex.Unlock()
}

// GetCurrentState returns the current state function (thread-safe)
func (sm *StateMachine[T]) GetCurrentState() StateFn[T] {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.stateFn
}

// SetState sets the state function without executing it
func (sm *StateMachine[T]) SetState(stateFn StateFn[T]) {
	sm.mutex.Lock()
	sm.stateFn = stateFn
	sm.mutex.Unlock()
}

// Is reports whether the current state is the given state function.
// Function values are not comparable in Go, so this compares code pointers.
func (sm *StateMachine[T]) Is(stateFn StateFn[T]) bool {
	sm.mutex.RLock()
	current := sm.stateFn
	sm.mutex.RUnlock()

	if current == nil || stateFn == nil {
		return current == nil && stateFn == nil
	}
	return fmt.Sprintf("%p", current) == fmt.Sprintf("%p", stateFn)
}
