package testutil

import "sync/atomic"

// Counter counts invocations across goroutines. The zero value is ready to
// use.
type Counter struct {
	n atomic.Int64
}

// Incr increments the counter and returns the new value.
func (c *Counter) Incr() int64 {
	return c.n.Add(1)
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	return c.n.Load()
}

// CountingFactory returns a factory that increments c on every invocation
// and yields value. Use it to verify that a lazy slot runs its factory
// exactly once.
func CountingFactory[T any](c *Counter, value T) func() (T, error) {
	return func() (T, error) {
		c.Incr()
		return value, nil
	}
}

// FailingFactory returns a factory that always fails with err.
func FailingFactory[T any](err error) func() (T, error) {
	return func() (T, error) {
		var zero T
		return zero, err
	}
}
