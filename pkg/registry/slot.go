package registry

import (
	"context"
	"sync"

	"github.com/arthur-debert/go-singleton/pkg/errors"
)

// Kind describes how a slot produces its instance.
type Kind int

const (
	// KindUnknown marks a handle for a key with no registration. Unknown
	// handles are built on lookup misses and never stored in the table.
	KindUnknown Kind = iota

	// KindEager slots hold an instance supplied at registration time.
	KindEager

	// KindLazy slots build their instance on first access and cache it
	// until deregistration.
	KindLazy

	// KindDeferred slots are backed by a Deferred that settles later.
	KindDeferred
)

func (k Kind) String() string {
	switch k {
	case KindEager:
		return "eager"
	case KindLazy:
		return "lazy"
	case KindDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// slot is a table entry. The kind tag never changes after construction;
// variant transitions happen by replacing the whole entry, which keeps the
// one-slot-per-key invariant enforceable at the single insertion point.
type slot struct {
	key  Key
	kind Kind

	// mu guards value and cached for lazy slots; eager slots set both at
	// construction and never write again.
	mu      sync.Mutex
	value   any
	cached  bool
	factory func() (any, error)

	deferred anyDeferred
}

// instance is the synchronous access path. It never blocks on an external
// computation: eager and cached lazy values return immediately, an uncached
// lazy slot runs its factory in the calling goroutine, and an unsettled
// deferred slot fails with NotYetResolved.
func (s *slot) instance() (any, error) {
	switch s.kind {
	case KindEager:
		return s.value, nil

	case KindLazy:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.cached {
			return s.value, nil
		}
		v, err := s.factory()
		if err != nil {
			// Not cached: the next access re-invokes the factory.
			return nil, err
		}
		if isNilValue(v) {
			return nil, errors.Newf(errors.ErrInvalidArgument,
				"factory for %s produced a nil instance", s.key)
		}
		s.value = v
		s.cached = true
		return v, nil

	case KindDeferred:
		if !s.deferred.settled() {
			return nil, errors.Newf(errors.ErrNotYetResolved,
				"deferred slot %s has not settled yet", s.key).
				WithDetail("key", s.key.String())
		}
		return s.deferred.outcome()
	}

	return nil, notFoundError(s.key)
}

// await blocks until the slot is settled. Eager and lazy slots settle
// through the synchronous path; deferred slots wait for their computation.
func (s *slot) await(ctx context.Context) (any, error) {
	if s.kind == KindDeferred {
		return s.deferred.wait(ctx)
	}
	return s.instance()
}

// state reports readiness for diagnostics.
func (s *slot) state() (ready, failed bool) {
	switch s.kind {
	case KindEager:
		return true, false
	case KindLazy:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.cached, false
	case KindDeferred:
		if !s.deferred.settled() {
			return false, false
		}
		_, err := s.deferred.outcome()
		return true, err != nil
	}
	return false, false
}

// clearCache drops a lazy slot's cached value so the factory runs again on
// the next access. No-op for other kinds.
func (s *slot) clearCache() {
	if s.kind != KindLazy {
		return
	}
	s.mu.Lock()
	s.value = nil
	s.cached = false
	s.mu.Unlock()
}

// Handle is the type-erased view of a Slot, usable as a WaitReady or List
// selector. Only Slot implements it.
type Handle interface {
	// Key returns the key the handle addresses.
	Key() Key
	// Kind returns the variant of the underlying slot, or KindUnknown for
	// a sentinel handle.
	Kind() Kind

	entry() *slot
}

// Slot is a typed handle on a registry entry for type T. Handles from a
// lookup miss are the Unknown sentinel: every operation on them fails with
// NotFound rather than creating a registration implicitly.
type Slot[T any] struct {
	reg *Registry
	key Key
	s   *slot
}

// Key returns the key this handle addresses.
func (h *Slot[T]) Key() Key {
	return h.key
}

// Kind returns the slot variant, or KindUnknown for a sentinel handle.
func (h *Slot[T]) Kind() Kind {
	if h.s == nil {
		return KindUnknown
	}
	return h.s.kind
}

func (h *Slot[T]) entry() *slot {
	return h.s
}

// Instance returns the slot's instance through the synchronous path.
// It fails with NotFound on an Unknown handle, NotYetResolved on an
// unsettled deferred slot, and replays a settled failure verbatim on
// every call.
func (h *Slot[T]) Instance() (T, error) {
	var zero T
	if h.s == nil {
		return zero, notFoundError(h.key)
	}

	v, err := h.s.instance()
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Newf(errors.ErrTypeMismatch,
			"slot %s holds %T, which is not a %s", h.key, v, h.key.Type)
	}
	return typed, nil
}

// Wait blocks until the slot is settled or ctx is done, then returns with
// Instance semantics. Eager and lazy slots are settled (or settle) without
// suspending; deferred slots wait for their computation.
func (h *Slot[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	if h.s == nil {
		return zero, notFoundError(h.key)
	}

	v, err := h.s.await(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Newf(errors.ErrTypeMismatch,
			"slot %s holds %T, which is not a %s", h.key, v, h.key.Type)
	}
	return typed, nil
}

// Deregister removes this slot from its registry and, for lazy slots,
// clears the cached value. It is a no-op on an Unknown handle, and a stale
// handle never evicts a successor slot registered under the same key.
func (h *Slot[T]) Deregister() {
	if h.s == nil {
		return
	}
	h.reg.remove(h.key, h.s)
}

func notFoundError(key Key) error {
	typeName := "<nil>"
	if key.Type != nil {
		typeName = key.Type.String()
	}
	return errors.Newf(errors.ErrNotFound, "no slot registered for %s", key).
		WithDetails(map[string]interface{}{
			"type": typeName,
			"name": key.Name,
		})
}
