package statemachine

import (
	"reflect"
	"sync"
)

// StateFn represents a state function following Rob Pike's pattern. Each
// state does its work against the entity and returns the next state, or nil
// to stop.
type StateFn[T any] func(*T) StateFn[T]

// StateMachine is a small, thread-safe driver for state functions. States
// may be registered under a name so the current state can be reported and
// restored from persisted data.
type StateMachine[T any] struct {
	entity  *T
	stateFn StateFn[T]
	names   map[uintptr]string
	byName  map[string]StateFn[T]
	mutex   sync.RWMutex
}

// NewStateMachine creates a new state machine for the given entity.
func NewStateMachine[T any](entity *T, initialStateFn StateFn[T]) *StateMachine[T] {
	return &StateMachine[T]{
		entity:  entity,
		stateFn: initialStateFn,
		names:   make(map[uintptr]string),
		byName:  make(map[string]StateFn[T]),
	}
}

func fnKey[T any](fn StateFn[T]) uintptr {
	if fn == nil {
		return 0
	}
	return reflect.ValueOf(fn).Pointer()
}

// Register names a state function.
func (sm *StateMachine[T]) Register(name string, fn StateFn[T]) *StateMachine[T] {
	sm.mutex.Lock()
	sm.names[fnKey(fn)] = name
	sm.byName[name] = fn
	sm.mutex.Unlock()
	return sm
}

// Dispatch runs the current state once and moves to the state it returns.
func (sm *StateMachine[T]) Dispatch() {
	sm.mutex.RLock()
	current := sm.stateFn
	sm.mutex.RUnlock()

	if current == nil {
		return
	}
	next := current(sm.entity)

	sm.mutex.Lock()
	sm.stateFn = next
	sm.mutex.Unlock()
}

// StateName returns the registered name of the current state, or "" if the
// state is unnamed or the machine has stopped.
func (sm *StateMachine[T]) StateName() string {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	if sm.stateFn == nil {
		return ""
	}
	return sm.names[fnKey(sm.stateFn)]
}

// SetStateByName restores a registered state. It reports false when no
// state has that name.
func (sm *StateMachine[T]) SetStateByName(name string) bool {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	fn, ok := sm.byName[name]
	if ok {
		sm.stateFn = fn
	}
	return ok
}
