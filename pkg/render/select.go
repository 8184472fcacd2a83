package render

import (
	"errors"
	"fmt"
)

// State is the backend-selection lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateFallbackInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateFallbackInitializing:
		return "fallback-initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrAllBackendsFailed is returned when neither the configured backend nor
// its fallback could initialize.
var ErrAllBackendsFailed = errors.New("render: all backends failed to initialize")

// Selector runs the backend activation state machine: try the configured
// backend, and if it was the pixel backend and its init fails, retry with
// the braille fallback. The braille backend has no fallback of its own.
type Selector struct {
	state    State
	active   Renderer
	name     string
	fellBack bool
}

// NewSelector returns a selector in the uninitialized state.
func NewSelector() *Selector {
	return &Selector{state: StateUninitialized}
}

// Activate attempts preferred.Init, then fallback.Init when a fallback is
// supplied. On success the selector is Ready and Active returns the live
// renderer; when every attempt fails the state is Failed and the returned
// error wraps both ErrAllBackendsFailed and the last init failure.
func (s *Selector) Activate(preferredName string, preferred Renderer, fallbackName string, fallback Renderer) error {
	s.state = StateInitializing
	err := preferred.Init()
	if err == nil {
		s.state = StateReady
		s.active = preferred
		s.name = preferredName
		return nil
	}

	if fallback == nil {
		s.state = StateFailed
		return fmt.Errorf("%w: %s: %w", ErrAllBackendsFailed, preferredName, err)
	}

	s.state = StateFallbackInitializing
	if ferr := fallback.Init(); ferr != nil {
		s.state = StateFailed
		return fmt.Errorf("%w: %s: %w; %s: %w", ErrAllBackendsFailed, preferredName, err, fallbackName, ferr)
	}

	s.state = StateReady
	s.active = fallback
	s.name = fallbackName
	s.fellBack = true
	return nil
}

// State returns the current lifecycle state.
func (s *Selector) State() State { return s.state }

// Active returns the live renderer, or nil before Ready.
func (s *Selector) Active() Renderer { return s.active }

// ActiveName returns the name of the live backend.
func (s *Selector) ActiveName() string { return s.name }

// FellBack reports whether the fallback backend is the one serving frames.
func (s *Selector) FellBack() bool { return s.fellBack }
