package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap("storage_error", "persist failed", cause)

	if !IsCode(err, "storage_error") {
		t.Fatalf("expected storage_error code")
	}
	if IsCode(err, "invalid_input") {
		t.Fatalf("did not expect invalid_input code")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	if got := err.Error(); got != "persist failed: disk full" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("record: %w", Wrap("invalid_input", "answer cannot be empty", nil))
	if got := Code(err); got != "invalid_input" {
		t.Fatalf("expected invalid_input got %q", got)
	}
	if Code(errors.New("plain")) != "" {
		t.Fatalf("expected empty code for plain error")
	}
	if IsCode(nil, "") {
		t.Fatalf("nil error must not match the empty code")
	}
}
