package errors

import "fmt"

// ConfigNotFound creates an error for a missing config file
func ConfigNotFound(path string) *HostsyncError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found at %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an error for an invalid config file
func ConfigInvalid(reason string) *HostsyncError {
	return New(ErrCodeConfigInvalid, reason)
}

// StaleTracking creates the fatal error raised when a new solution opens
// while projects from a previous solution are still tracked.
func StaleTracking(count int) *HostsyncError {
	return New(ErrCodeStaleTracking,
		fmt.Sprintf("%d project(s) still tracked from a previous solution; StopTracking was never called", count)).
		WithDetail("tracked_projects", count)
}

// TrackDuplicate creates the fatal error raised when a project is tracked
// twice into the same batch window without an intervening StopTracking.
func TrackDuplicate(projectID string) *HostsyncError {
	return New(ErrCodeTrackDuplicate,
		fmt.Sprintf("project %q is already tracked in this window", projectID)).
		WithDetail("project", projectID)
}

// ScopeReclosed creates the fatal error raised when a batch scope is closed
// more than once.
func ScopeReclosed(projectID string) *HostsyncError {
	return New(ErrCodeScopeReclosed,
		fmt.Sprintf("batch scope for project %q closed twice", projectID)).
		WithDetail("project", projectID)
}

// WrongThread creates the fatal error raised when a guarded entry point is
// invoked off the coordinating goroutine.
func WrongThread(component string, want, got uint64) *HostsyncError {
	return New(ErrCodeWrongThread,
		fmt.Sprintf("%s must be used from its coordinating goroutine (bound to %d, called from %d)", component, want, got)).
		WithDetail("component", component).
		WithDetail("bound_goroutine", want).
		WithDetail("calling_goroutine", got)
}

// ScriptNotFound creates an error for a missing replay script
func ScriptNotFound(path string) *HostsyncError {
	return New(ErrCodeScriptNotFound, fmt.Sprintf("replay script not found at %s", path)).
		WithDetail("path", path)
}

// ScriptInvalid creates an error for a malformed replay script
func ScriptInvalid(path string, err error) *HostsyncError {
	return Wrap(err, ErrCodeScriptInvalid, fmt.Sprintf("failed to parse replay script %s", path)).
		WithDetail("path", path)
}
