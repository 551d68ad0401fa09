package errors

import (
	"fmt"
	"testing"
)

func TestHostsyncError(t *testing.T) {
	t.Run("Error formatting without cause", func(t *testing.T) {
		err := New(ErrCodeTrackDuplicate, "project already tracked")
		want := "TRACK_DUPLICATE: project already tracked"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("Error formatting with cause", func(t *testing.T) {
		cause := fmt.Errorf("underlying failure")
		err := Wrap(cause, ErrCodeShellQuery, "context query failed")
		got := err.Error()
		want := "SHELL_QUERY: context query failed (caused by: underlying failure)"
		if got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		if err.Unwrap() != cause {
			t.Error("Unwrap() did not return the original cause")
		}
	})

	t.Run("Is matches codes through wrapping", func(t *testing.T) {
		err := Wrap(New(ErrCodeStaleTracking, "stale"), ErrCodeInternal, "outer")
		if !Is(err, ErrCodeInternal) {
			t.Error("Is() should match the outer code")
		}
		if Is(nil, ErrCodeInternal) {
			t.Error("Is(nil) should be false")
		}
	})

	t.Run("WithDetail accumulates details", func(t *testing.T) {
		err := StaleTracking(3)
		if err.Details["tracked_projects"] != 3 {
			t.Errorf("expected tracked_projects detail, got %v", err.Details)
		}
		if GetCode(err) != ErrCodeStaleTracking {
			t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeStaleTracking)
		}
	})
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err  *HostsyncError
		code ErrorCode
	}{
		{ConfigNotFound("/tmp/hostsync.yml"), ErrCodeConfigNotFound},
		{TrackDuplicate("proj-a"), ErrCodeTrackDuplicate},
		{ScopeReclosed("proj-a"), ErrCodeScopeReclosed},
		{WrongThread("coalescer", 1, 42), ErrCodeWrongThread},
		{ScriptNotFound("missing.yml"), ErrCodeScriptNotFound},
	}
	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("constructor produced code %v, want %v", tc.err.Code, tc.code)
		}
	}
}
