package nurbs

import (
	"errors"
	"testing"
)

// expectViolation fails the test unless fn panics with a *ContractViolation.
func expectViolation(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected a contract violation panic, got none")
		}
		err, ok := r.(error)
		var cv *ContractViolation
		if !ok || !errors.As(err, &cv) {
			t.Fatalf("expected *ContractViolation panic, got %T: %v", r, r)
		}
	}()
	fn()
}
