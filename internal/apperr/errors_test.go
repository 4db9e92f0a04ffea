package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind_ExitCode(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected int
	}{
		{KindUnknown, ExitUnknown},
		{KindUsage, ExitUsage},
		{KindResourceUnavailable, ExitResourceUnavailable},
		{KindConstraintUnsatisfiable, ExitConstraintUnsatisfiable},
		{KindIO, ExitIO},
		{KindInterrupted, ExitInterrupted},
	}

	for _, test := range tests {
		if got := test.kind.ExitCode(); got != test.expected {
			t.Errorf("Kind(%s).ExitCode() = %d, expected %d", test.kind, got, test.expected)
		}
	}
}

func TestError_Message(t *testing.T) {
	plain := New(KindUsage, "bad token %q", "x")
	if plain.Error() != `bad token "x"` {
		t.Errorf("Unexpected message: %s", plain.Error())
	}

	cause := errors.New("disk full")
	wrapped := Wrap(KindIO, cause, "cannot write %s", "a.mp4")
	if wrapped.Error() != "cannot write a.mp4: disk full" {
		t.Errorf("Unexpected message: %s", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Expected wrapped error to unwrap to its cause")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"typed", New(KindConstraintUnsatisfiable, "no stream"), KindConstraintUnsatisfiable},
		{"typed wrapped by fmt", fmt.Errorf("outer: %w", New(KindIO, "mkdir")), KindIO},
		{"context canceled", fmt.Errorf("download: %w", context.Canceled), KindInterrupted},
		{"interrupted helper", Interrupted(context.Canceled), KindInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != ExitOK {
		t.Errorf("Expected %d for nil error", ExitOK)
	}
	if ExitCode(Usage("x")) != ExitUsage {
		t.Errorf("Expected %d for usage error", ExitUsage)
	}
	if ExitCode(errors.New("x")) != ExitUnknown {
		t.Errorf("Expected %d for untyped error", ExitUnknown)
	}
}
