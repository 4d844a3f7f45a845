package cms

import "context"

// Result carries the outcome of an asynchronous invocation. Exactly one
// of Value and Err is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// Callback receives the outcome of a callback-style invocation.
type Callback[T any] func(T, error)

// Async runs fn in a new goroutine and returns a buffered channel that
// receives the single result. This is the one asynchronous primitive;
// every Async service verb is a thin wrapper over the blocking call.
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)

	go func() {
		defer close(out)

		value, err := fn(ctx)
		out <- Result[T]{Value: value, Err: err}
	}()

	return out
}

// Notify runs fn in a new goroutine and delivers the outcome to cb.
// Derived from the same primitive as Async; never both for one logical
// operation.
func Notify[T any](ctx context.Context, fn func(context.Context) (T, error), cb Callback[T]) {
	go func() {
		cb(fn(ctx))
	}()
}
