// Package core holds the session orchestration for dicton: the dictation
// state machine, the cancellation token, the controller, and the ports it
// drives. Everything platform- or vendor-specific lives behind the ports.
package core

import (
	"sync"

	"dicton/log"
)

// SessionState models the dictation session lifecycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateProcessing
	StateOutputting
	StateError
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateProcessing:
		return "processing"
	case StateOutputting:
		return "outputting"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// SessionEvent drives transitions between session states.
type SessionEvent int

const (
	EventStart SessionEvent = iota
	EventStop
	EventCancel
	EventProcessDone
	EventOutputDone
	EventError
	EventReset
)

func (e SessionEvent) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventStop:
		return "stop"
	case EventCancel:
		return "cancel"
	case EventProcessDone:
		return "process_done"
	case EventOutputDone:
		return "output_done"
	case EventError:
		return "error"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

var transitions = map[SessionState]map[SessionEvent]SessionState{
	StateIdle: {
		EventStart: StateRecording,
	},
	StateRecording: {
		EventStop:   StateProcessing,
		EventCancel: StateIdle,
		EventError:  StateError,
	},
	StateProcessing: {
		EventProcessDone: StateOutputting,
		EventError:       StateError,
	},
	StateOutputting: {
		EventOutputDone: StateIdle,
		EventError:      StateError,
	},
	StateError: {
		EventReset: StateIdle,
	},
}

// StateMachine tracks the state of a single dictation session. The
// controller calls Transition defensively on every branch, so events that
// are not valid for the current state are ignored, never fatal. Stop and
// Cancel arrive from the hotkey goroutine while RunSession transitions on
// its own, so state is guarded by a mutex.
type StateMachine struct {
	mu    sync.Mutex
	state SessionState
}

func NewStateMachine() *StateMachine {
	return &StateMachine{state: StateIdle}
}

func (m *StateMachine) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Transition applies event and returns the resulting state. Invalid
// (state, event) pairs leave the state unchanged and are only logged.
func (m *StateMachine) Transition(event SessionEvent) SessionState {
	m.mu.Lock()
	next, ok := transitions[m.state][event]
	if !ok {
		cur := m.state
		m.mu.Unlock()
		log.InvalidTransition(cur.String(), event.String())
		return cur
	}
	m.state = next
	m.mu.Unlock()
	return next
}
