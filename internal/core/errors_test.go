package core

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitOK},
		{"cli", WrapError(ExitUsage, "bad flag", nil), ExitUsage},
		{"not found", NotFound("playlist.load", os.ErrNotExist), ExitNotFound},
		{"capacity", Capacity("bookmark.add", "store full"), ExitCapacity},
		{"malformed", Malformed("playlist.decode", "bad extinf"), ExitInvalid},
		{"invalid", InvalidArgument("filter.apply", "gamma must be positive"), ExitInvalid},
		{"wrapped", fmt.Errorf("load: %w", NotFound("playlist.load", nil)), ExitNotFound},
		{"plain", errors.New("boom"), ExitRuntime},
	}

	for _, test := range tests {
		if got := ExitCode(test.err); got != test.expected {
			t.Fatalf("%s: expected %d got %d", test.name, test.expected, got)
		}
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", InvalidArgument("filter.apply", "width must be positive"))
	if !IsKind(err, KindInvalidArgument) {
		t.Fatalf("expected invalid argument kind")
	}
	if IsKind(err, KindNotFound) {
		t.Fatalf("unexpected not found kind")
	}
	if IsKind(errors.New("plain"), KindInternal) {
		t.Fatalf("plain errors carry no kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := NotFound("bookmark.load", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist")
	}
	if err.Error() != "bookmark.load: not found: file does not exist" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
