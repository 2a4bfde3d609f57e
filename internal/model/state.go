package model

import "errors"

// ErrInvalidState is returned when a value outside the ServiceState set is
// passed to a transition. It signals a programming bug, not a runtime
// condition, and callers treat it as fatal.
var ErrInvalidState = errors.New("invalid service state")

// ServiceState is the coarse-grained lifecycle status of a worker.
//
// Normal boot progression:
//
//	StateInit → StateStarting → StateStarted → StateStopped
//
// A remote start command re-enters StateStarted directly from StateStopped.
// StateStopping is declared but currently unreachable; it is reserved for a
// future graceful-drain path.
type ServiceState string

const (
	StateInit     ServiceState = "init"
	StateStarting ServiceState = "starting"
	StateStarted  ServiceState = "started"
	StateStopping ServiceState = "stopping"
	StateStopped  ServiceState = "stopped"
)

// Valid reports whether s is a member of the enumerated state set.
func (s ServiceState) Valid() bool {
	switch s {
	case StateInit, StateStarting, StateStarted, StateStopping, StateStopped:
		return true
	}
	return false
}

// String returns the external representation used in heartbeats and logs.
func (s ServiceState) String() string {
	return string(s)
}
