package testutil

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/go-singleton/pkg/errors"
)

// AssertCode checks that err is non-nil and carries the given error code.
func AssertCode(t *testing.T, err error, code errors.ErrorCode, msgAndArgs ...interface{}) {
	t.Helper()

	if err == nil {
		t.Errorf("%sExpected error with code %s, got nil", formatMessage(msgAndArgs...), code)
		return
	}
	if got := errors.GetErrorCode(err); got != code {
		t.Errorf("%sError code mismatch. Expected: %s, Actual: %s (error: %v)",
			formatMessage(msgAndArgs...), code, got, err)
	}
}

// RequireCode is AssertCode, but stops the test on failure.
func RequireCode(t *testing.T, err error, code errors.ErrorCode, msgAndArgs ...interface{}) {
	t.Helper()

	if err == nil {
		t.Fatalf("%sExpected error with code %s, got nil", formatMessage(msgAndArgs...), code)
	}
	if got := errors.GetErrorCode(err); got != code {
		t.Fatalf("%sError code mismatch. Expected: %s, Actual: %s (error: %v)",
			formatMessage(msgAndArgs...), code, got, err)
	}
}

// AssertNoError checks if no error occurred.
func AssertNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()

	if err != nil {
		t.Errorf("%sUnexpected error: %v", formatMessage(msgAndArgs...), err)
	}
}

func formatMessage(msgAndArgs ...interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}

	if format, ok := msgAndArgs[0].(string); ok {
		if len(msgAndArgs) > 1 {
			return fmt.Sprintf(format, msgAndArgs[1:]...) + "\n"
		}
		return format + "\n"
	}

	return fmt.Sprint(msgAndArgs...) + "\n"
}
