package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrProtoVersion,
		ErrRunNotFound,
		ErrRunCorrupt,
		ErrBadRequest,
		ErrUnknownAction,
		ErrNoResource,
		ErrInvalidTarget,
		ErrRateLimit,
		ErrConflict,
		ErrBlocked,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestCodeForReason(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"Unknown good":             ErrInvalidTarget,
		"No such officer":          ErrInvalidTarget,
		"Contract not found":       ErrInvalidTarget,
		"Not enough gold":          ErrNoResource,
		"Hold full":                ErrNoResource,
		"Already docked":           ErrConflict,
		"Treasure already claimed": ErrConflict,
		"Invalid quantity":         ErrBadRequest,
		"Too far":                  ErrBlocked,
		"Encounter pending":        ErrBlocked,
	}
	for reason, want := range cases {
		if got := CodeForReason(reason); got != want {
			t.Fatalf("CodeForReason(%q)=%q want %q", reason, got, want)
		}
		if !IsKnownCode(CodeForReason(reason)) {
			t.Fatalf("unknown code for %q", reason)
		}
	}
}
