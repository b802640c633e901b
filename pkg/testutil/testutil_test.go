package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/arthur-debert/go-singleton/pkg/errors"
)

func TestCounter(t *testing.T) {
	var c Counter

	if c.Value() != 0 {
		t.Errorf("zero value Counter = %d, want 0", c.Value())
	}

	c.Incr()
	c.Incr()

	if c.Value() != 2 {
		t.Errorf("Counter after two Incr = %d, want 2", c.Value())
	}
}

func TestCounterConcurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Incr()
		}()
	}
	wg.Wait()

	if c.Value() != 50 {
		t.Errorf("Counter after 50 concurrent Incr = %d, want 50", c.Value())
	}
}

func TestCountingFactory(t *testing.T) {
	var c Counter
	factory := CountingFactory(&c, "instance")

	for i := 0; i < 3; i++ {
		got, err := factory()
		if err != nil {
			t.Fatalf("factory returned error: %v", err)
		}
		if got != "instance" {
			t.Errorf("factory value = %q, want %q", got, "instance")
		}
	}

	if c.Value() != 3 {
		t.Errorf("Counter after 3 factory calls = %d, want 3", c.Value())
	}
}

func TestFailingFactory(t *testing.T) {
	cause := fmt.Errorf("database unreachable")
	factory := FailingFactory[*int](cause)

	got, err := factory()
	if err != cause {
		t.Errorf("factory error = %v, want %v", err, cause)
	}
	if got != nil {
		t.Errorf("factory value = %v, want nil", got)
	}
}

func TestAssertCode(t *testing.T) {
	err := errors.New(errors.ErrConflict, "slot already registered")
	AssertCode(t, err, errors.ErrConflict)

	wrapped := errors.Wrap(err, errors.ErrNotFound, "outer")
	AssertCode(t, wrapped, errors.ErrNotFound)
}

func TestRequireCode(t *testing.T) {
	err := errors.New(errors.ErrNotYetResolved, "deferred slot is still pending")
	RequireCode(t, err, errors.ErrNotYetResolved, "pending deferred")
}

func TestAssertNoError(t *testing.T) {
	AssertNoError(t, nil)
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name     string
		args     []interface{}
		expected string
	}{
		{
			name:     "no args",
			args:     []interface{}{},
			expected: "",
		},
		{
			name:     "single string",
			args:     []interface{}{"test message"},
			expected: "test message\n",
		},
		{
			name:     "format string",
			args:     []interface{}{"value is %d", 42},
			expected: "value is 42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMessage(tt.args...)
			if got != tt.expected {
				t.Errorf("formatMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}
