// Package registry provides a generic, thread-safe singleton registry:
// a process-wide table holding at most one instance per type and optional
// instance name. Slots are registered eagerly with a value, lazily with a
// factory, or deferred behind an asynchronously settling computation, and
// callers can wait in bulk for any mix of them to become ready.
package registry
