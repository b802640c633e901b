// Package testutil provides utilities for testing registry components.
//
// Key components:
//   - Counter: goroutine-safe invocation counter for lazy factory tests
//   - CountingFactory / FailingFactory: canned slot factories
//   - AssertCode / RequireCode: error code assertions for registry errors
//
// Tests should never share registry state: construct a fresh Registry per
// test, or reset the shared one with ResetAllForTest.
package testutil
