// Package host defines the surface of the IDE shell this layer integrates
// with: an ordered solution-lifecycle event stream plus a queryable UI
// context state. The shell delivers events synchronously, in a documented
// order, on the coordinating goroutine.
package host

// ContextID names a global UI context condition the shell can be asked about.
type ContextID string

// ContextSolutionExistsAndFullyLoaded is active once a solution is open and
// its background load has completed.
const ContextSolutionExistsAndFullyLoaded ContextID = "solution-exists-and-fully-loaded"

// SolutionEvents is the callback interface through which the shell delivers
// solution lifecycle events. The shell guarantees ordering per solution:
// before-open, zero or more load-batch windows, after-background-load-complete,
// before-close. Handlers run synchronously; a returned error is a fatal
// condition, not a veto.
type SolutionEvents interface {
	OnBeforeOpenSolution() error
	OnAfterOpenSolution() error
	OnBeforeCloseSolution() error

	// OnBeforeLoadProjectBatch announces a group load of projects.
	// backgroundIdle distinguishes idle-time background batches from
	// synchronous foreground batches.
	OnBeforeLoadProjectBatch(backgroundIdle bool) error
	OnAfterLoadProjectBatch(backgroundIdle bool) error

	OnBeforeBackgroundSolutionLoadBegins() error

	// OnAfterBackgroundSolutionLoadComplete is the terminal signal that the
	// bulk solution load has finished.
	OnAfterBackgroundSolutionLoadComplete() error

	// OnQueryBackgroundLoadDelay lets a subscriber ask the shell to postpone
	// the background load. Reserved; subscribers currently answer false.
	OnQueryBackgroundLoadDelay() (shouldDelay bool, err error)
}

// Shell is the host surface this layer depends on.
type Shell interface {
	// AdviseSolutionEvents subscribes to the lifecycle stream and returns a
	// subscription cookie. The subscription lives for the rest of the process;
	// there is no unadvise on this interface.
	AdviseSolutionEvents(events SolutionEvents) (cookie uint32, err error)

	// IsContextActive reports whether the named UI context is currently active.
	IsContextActive(id ContextID) (bool, error)
}
