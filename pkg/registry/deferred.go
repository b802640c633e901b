package registry

import (
	"context"
	"sync"

	"github.com/arthur-debert/go-singleton/pkg/errors"
)

// Deferred is a single-settlement asynchronous computation: it is resolved
// with a value or rejected with an error exactly once, and every read after
// settlement observes that same outcome. There is no way to cancel a
// pending Deferred; callers that need a timeout race Wait against a
// context.
type Deferred[T any] struct {
	once sync.Once
	done chan struct{}

	// written inside once before done is closed, read only after
	value T
	err   error
}

// NewDeferred returns a pending Deferred.
func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{done: make(chan struct{})}
}

// Go runs fn in a new goroutine and returns a Deferred that settles with
// its outcome.
func Go[T any](fn func() (T, error)) *Deferred[T] {
	d := NewDeferred[T]()
	go func() {
		v, err := fn()
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(v)
	}()
	return d
}

// Resolve settles the Deferred with value. A nil value is recorded as an
// InvalidArgument failure so waiters never observe a nil success. Calls
// after the first settlement are ignored.
func (d *Deferred[T]) Resolve(value T) {
	d.once.Do(func() {
		if isNilValue(value) {
			d.err = errors.New(errors.ErrInvalidArgument, "deferred resolved with a nil value")
			close(d.done)
			return
		}
		d.value = value
		close(d.done)
	})
}

// Reject settles the Deferred with err. A nil err is recorded as an
// InvalidArgument failure so waiters still observe an error outcome.
func (d *Deferred[T]) Reject(err error) {
	d.once.Do(func() {
		if err == nil {
			err = errors.New(errors.ErrInvalidArgument, "deferred rejected with a nil error")
		}
		d.err = err
		close(d.done)
	})
}

// Settled reports whether the Deferred has been resolved or rejected.
func (d *Deferred[T]) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the Deferred settles or ctx is done. After settlement
// it returns the settled outcome on every call; on cancellation it returns
// ctx's error and the Deferred stays pending.
func (d *Deferred[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// anyDeferred is the type-erased settlement surface a deferred slot holds.
// Every *Deferred[T] implements it.
type anyDeferred interface {
	settled() bool
	wait(ctx context.Context) (any, error)
	outcome() (any, error)
}

func (d *Deferred[T]) settled() bool {
	return d.Settled()
}

func (d *Deferred[T]) wait(ctx context.Context) (any, error) {
	v, err := d.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// outcome returns the settled result. It must only be called after settled
// reports true.
func (d *Deferred[T]) outcome() (any, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.value, nil
}
