package service

import "context"

// Body is the capability a concrete worker plugs into the substrate: the
// domain publish/subscribe work performed once the state machine reaches
// started. The core holds this interface, never a concrete type.
type Body interface {
	// Publish emits domain messages for publishing workers.
	Publish(ctx context.Context) error
	// Subscribe consumes domain messages for consuming workers.
	Subscribe(ctx context.Context) error
	// Run is the entry point the state machine hands control to. A
	// well-behaved body suspends on its own I/O rather than returning
	// immediately, and returns only when its work is over.
	Run(ctx context.Context) error
}

// BaseBody is a no-op Body. Concrete workers embed it and override only
// the hooks they need.
type BaseBody struct{}

func (BaseBody) Publish(ctx context.Context) error { return nil }

func (BaseBody) Subscribe(ctx context.Context) error { return nil }

func (BaseBody) Run(ctx context.Context) error { return nil }
