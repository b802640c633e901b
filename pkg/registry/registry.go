package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/go-singleton/pkg/errors"
	"github.com/arthur-debert/go-singleton/pkg/logging"
)

// Registry is a thread-safe table mapping keys (type plus optional instance
// name) to slots. Each key holds at most one live slot at a time; removing
// a slot frees its key for a fresh registration.
type Registry struct {
	mu    sync.RWMutex
	slots map[Key]*slot
	log   zerolog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger replaces the registry's logger. Use logging.Nop() to silence
// the library entirely.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = logger
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		slots: make(map[Key]*slot),
		log:   logging.GetLogger("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// insert is the single enforcement point for the one-slot-per-key
// invariant: it checks and stores under the write lock.
func (r *Registry) insert(s *slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slots[s.key]; exists {
		return errors.Newf(errors.ErrConflict, "slot %s is already registered", s.key).
			WithDetail("key", s.key.String())
	}

	r.slots[s.key] = s
	r.log.Debug().Str("key", s.key.String()).Str("kind", s.kind.String()).Msg("slot registered")
	return nil
}

// getOrInsert stores s unless its key is already live, in which case the
// existing slot is returned. This is the RegisterLazy exemption from the
// conflict check.
func (r *Registry) getOrInsert(s *slot) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.slots[s.key]; ok {
		return existing
	}

	r.slots[s.key] = s
	r.log.Debug().Str("key", s.key.String()).Str("kind", s.kind.String()).Msg("slot registered")
	return s
}

func (r *Registry) get(key Key) (*slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[key]
	return s, ok
}

// remove deletes the slot under key. When only is non-nil the entry is
// removed just if it is that exact slot, so a stale handle cannot evict a
// successor registered under the same key. Removal clears a lazy slot's
// cache; an orphaned handle then re-runs its factory on next access.
func (r *Registry) remove(key Key, only *slot) {
	r.mu.Lock()
	s, ok := r.slots[key]
	if ok && (only == nil || s == only) {
		delete(r.slots, key)
	} else {
		s = nil
	}
	r.mu.Unlock()

	if s == nil {
		return
	}

	s.clearCache()
	r.log.Debug().Str("key", key.String()).Str("kind", s.kind.String()).Msg("slot deregistered")
}

// WaitReady blocks until every selected slot is settled. A selector is a
// Key, a reflect.Type (addressing the unnamed key for that type), a Handle
// already in hand, or a []any mixing those; a bare selector is the
// one-element case and an empty selector list returns immediately.
//
// Resolution fails with NotFound for a selector naming an unregistered key
// (Unknown sentinel handles included) and with InvalidArgument for nil or
// unsupported selectors. Waiting fails with the first slot failure, or with
// ctx's error on cancellation. Slots deregistered mid-wait are still waited
// on; their computations are never stopped.
func (r *Registry) WaitReady(ctx context.Context, selectors ...any) error {
	slots, err := r.resolve(selectors)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		return nil
	}

	r.log.Debug().Int("slots", len(slots)).Msg("waiting for slots to settle")

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range slots {
		s := s
		g.Go(func() error {
			_, err := s.await(ctx)
			return err
		})
	}
	return g.Wait()
}

// resolve maps selectors to live slots using the grammar documented on
// WaitReady.
func (r *Registry) resolve(selectors []any) ([]*slot, error) {
	var out []*slot
	for _, sel := range selectors {
		if err := r.appendResolved(&out, sel); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Registry) appendResolved(out *[]*slot, sel any) error {
	switch v := sel.(type) {
	case nil:
		return errors.New(errors.ErrInvalidArgument, "selector must not be nil")

	case Key:
		s, ok := r.get(v)
		if !ok {
			return notFoundError(v)
		}
		*out = append(*out, s)

	case reflect.Type:
		return r.appendResolved(out, Key{Type: v})

	case Handle:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return errors.New(errors.ErrInvalidArgument, "selector handle must not be nil")
		}
		s := v.entry()
		if s == nil {
			return notFoundError(v.Key())
		}
		*out = append(*out, s)

	case []any:
		for _, item := range v {
			if err := r.appendResolved(out, item); err != nil {
				return err
			}
		}

	default:
		return errors.Newf(errors.ErrInvalidArgument, "unsupported selector type %T", sel)
	}
	return nil
}

// SlotInfo describes one registered slot for diagnostics.
type SlotInfo struct {
	Key    Key
	Kind   Kind
	Ready  bool
	Failed bool
}

func (i SlotInfo) String() string {
	state := "pending"
	switch {
	case i.Failed:
		state = "failed"
	case i.Ready:
		state = "ready"
	}
	return fmt.Sprintf("%s %s %s", i.Key, i.Kind, state)
}

// List enumerates registered slots for debugging and tests. With no
// selectors it lists the whole table; otherwise it lists the selected
// slots, using the WaitReady selector grammar. Output is ordered by type
// name, then instance name.
func (r *Registry) List(selectors ...any) ([]SlotInfo, error) {
	var slots []*slot
	if len(selectors) == 0 {
		r.mu.RLock()
		slots = make([]*slot, 0, len(r.slots))
		for _, s := range r.slots {
			slots = append(slots, s)
		}
		r.mu.RUnlock()
	} else {
		var err error
		slots, err = r.resolve(selectors)
		if err != nil {
			return nil, err
		}
	}

	infos := make([]SlotInfo, 0, len(slots))
	for _, s := range slots {
		ready, failed := s.state()
		infos = append(infos, SlotInfo{Key: s.key, Kind: s.kind, Ready: ready, Failed: failed})
	}
	sort.Slice(infos, func(i, j int) bool {
		return keyLess(infos[i].Key, infos[j].Key)
	})
	return infos, nil
}

// ResetAllForTest unconditionally clears the table so no state survives
// between tests. It is a test-isolation escape hatch, not production API;
// orphaned deferred computations keep running but their outcomes are no
// longer reachable through the registry.
func (r *Registry) ResetAllForTest() {
	r.mu.Lock()
	n := len(r.slots)
	r.slots = make(map[Key]*slot)
	r.mu.Unlock()

	r.log.Debug().Int("count", n).Msg("registry reset")
}

// Count returns the number of registered slots.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.slots)
}

// Keys returns the registered keys ordered by type name, then instance
// name.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.slots))
	for k := range r.slots {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keyLess(keys[i], keys[j])
	})
	return keys
}
