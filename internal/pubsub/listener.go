package pubsub

import "context"

// ContinuousListener wraps a broker subscription with a blocking Next call,
// which is the shape Bubble Tea commands want: a command calls Next, returns
// the event as a message, and the update loop re-issues the command.
type ContinuousListener[T any] struct {
	ch <-chan Event[T]
}

// NewContinuousListener subscribes to the broker for the lifetime of ctx.
func NewContinuousListener[T any](ctx context.Context, b *Broker[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{ch: b.Subscribe(ctx)}
}

// Next blocks until an event arrives. The second return is false once the
// subscription has been released (context cancelled or broker shut down).
func (l *ContinuousListener[T]) Next() (Event[T], bool) {
	event, ok := <-l.ch
	return event, ok
}
