package registry

import (
	"fmt"
	"reflect"

	"github.com/arthur-debert/go-singleton/pkg/errors"
)

// SlotOption configures one registration or lookup call.
type SlotOption func(*slotConfig)

type slotConfig struct {
	name string
}

// WithName addresses the named slot for a type instead of the unnamed one.
// Named and unnamed slots for the same type are independent.
func WithName(name string) SlotOption {
	return func(c *slotConfig) {
		c.name = name
	}
}

func keyFor[T any](opts []SlotOption) Key {
	var cfg slotConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return Key{Type: TypeFor[T](), Name: cfg.name}
}

// Lookup returns the live slot for T, or the Unknown sentinel when nothing
// is registered under the key. It never fails; failures surface on the
// returned handle's operations.
func Lookup[T any](r *Registry, opts ...SlotOption) *Slot[T] {
	key := keyFor[T](opts)
	s, _ := r.get(key)
	return &Slot[T]{reg: r, key: key, s: s}
}

// RegisterValue registers an eager slot holding value. It fails with
// Conflict if the key is occupied and with InvalidArgument if value is nil.
// A *Deferred is not a value: register it with RegisterDeferred so the
// registry tracks its settlement.
func RegisterValue[T any](r *Registry, value T, opts ...SlotOption) (*Slot[T], error) {
	key := keyFor[T](opts)

	if isNilValue(value) {
		return nil, errors.Newf(errors.ErrInvalidArgument,
			"value for %s must not be nil", key)
	}
	if _, ok := any(value).(anyDeferred); ok {
		return nil, errors.Newf(errors.ErrInvalidArgument,
			"%s is a deferred computation, register it with RegisterDeferred", key)
	}

	s := &slot{key: key, kind: KindEager, value: value, cached: true}
	if err := r.insert(s); err != nil {
		return nil, err
	}
	return &Slot[T]{reg: r, key: key, s: s}, nil
}

// RegisterLazy registers a lazy slot that runs factory on first access and
// caches the result until deregistration. Re-registering an occupied key is
// not a conflict: lazy factories are commonly re-declared at each call
// site, so the existing slot is returned instead. A nil factory fails with
// InvalidArgument.
func RegisterLazy[T any](r *Registry, factory func() (T, error), opts ...SlotOption) (*Slot[T], error) {
	key := keyFor[T](opts)

	if factory == nil {
		return nil, errors.Newf(errors.ErrInvalidArgument,
			"factory for %s must not be nil", key)
	}

	s := &slot{
		key:  key,
		kind: KindLazy,
		factory: func() (any, error) {
			v, err := factory()
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
	stored := r.getOrInsert(s)
	return &Slot[T]{reg: r, key: key, s: stored}, nil
}

// RegisterDeferred registers a slot backed by d. Synchronous access before
// d settles fails with NotYetResolved; after settlement every access
// replays the outcome, a rejection cause verbatim. It fails with Conflict
// if the key is occupied and with InvalidArgument if d is nil. The registry
// never cancels d's computation.
func RegisterDeferred[T any](r *Registry, d *Deferred[T], opts ...SlotOption) (*Slot[T], error) {
	key := keyFor[T](opts)

	if d == nil {
		return nil, errors.Newf(errors.ErrInvalidArgument,
			"deferred for %s must not be nil", key)
	}

	s := &slot{key: key, kind: KindDeferred, deferred: d}
	if err := r.insert(s); err != nil {
		return nil, err
	}
	return &Slot[T]{reg: r, key: key, s: s}, nil
}

// Deregister removes the slot for T under the optional instance name. It is
// a no-op when nothing is registered. A removed lazy slot's cache is
// cleared; a removed deferred slot's computation keeps running with its
// outcome orphaned.
func Deregister[T any](r *Registry, opts ...SlotOption) {
	r.remove(keyFor[T](opts), nil)
}

// Has reports whether a slot is registered for T under the optional
// instance name.
func Has[T any](r *Registry, opts ...SlotOption) bool {
	_, ok := r.get(keyFor[T](opts))
	return ok
}

// MustRegisterValue registers value and panics if registration fails.
// This is useful for init() wiring where a failure is a programming error.
func MustRegisterValue[T any](r *Registry, value T, opts ...SlotOption) *Slot[T] {
	h, err := RegisterValue(r, value, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", keyFor[T](opts), err))
	}
	return h
}

// MustInstance returns the instance for T and panics if it is unavailable.
// This is useful when the instance must exist.
func MustInstance[T any](r *Registry, opts ...SlotOption) T {
	v, err := Lookup[T](r, opts...).Instance()
	if err != nil {
		panic(fmt.Sprintf("failed to get %s: %v", keyFor[T](opts), err))
	}
	return v
}

// isNilValue reports whether v is nil, including a typed nil inside a
// non-nil interface.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}

	return false
}
