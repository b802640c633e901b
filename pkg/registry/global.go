package registry

import "sync"

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry. It is created on first use and
// shared by every caller that does not construct its own Registry; tests
// using it should call ResetAllForTest at their isolation boundaries.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
	})
	return defaultReg
}
