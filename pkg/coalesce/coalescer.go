// Package coalesce turns the host shell's project-load lifecycle into batched
// workspace updates. During a bulk solution load the shell announces hundreds
// of per-project changes; the Coalescer opens a batch scope per tracked
// project when a load window begins and closes it when the window ends, so
// downstream consumers see one coalesced update per project instead of many.
package coalesce

import (
	"github.com/grovetools/hostsync/errors"
	"github.com/grovetools/hostsync/internal/foreground"
	"github.com/grovetools/hostsync/logging"
	"github.com/grovetools/hostsync/pkg/host"
	"github.com/grovetools/hostsync/pkg/project"
	"github.com/sirupsen/logrus"
)

// Coalescer tracks two kinds of batch window per project:
//
//   - the whole-solution load window, opened when a project is tracked while
//     a solution load is in flight and closed only when the shell declares
//     the background load complete, and
//   - a shorter-lived foreground batch window, opened and closed per
//     non-idle load batch.
//
// The windows nest independently: a project can hold a scope in both at once,
// and each scope is closed exactly once by whichever comes first of its
// window closing or the project being untracked.
//
// All methods, including the host event callbacks, must run on one
// coordinating goroutine. There is no internal locking; the contract is
// enforced by a foreground guard when thread checks are enabled.
type Coalescer struct {
	shell host.Shell
	guard *foreground.Guard
	log   *logrus.Entry

	subscribed          bool
	solutionFullyLoaded bool

	// Scopes held open for the duration of the whole-solution load.
	solutionLoadScopes map[*project.Project]*project.BatchScope

	// Scopes for the currently open foreground batch. nil means no foreground
	// window is open; a non-nil empty map is an open window with no projects
	// tracked into it yet. The distinction is load-bearing.
	foregroundScopes map[*project.Project]*project.BatchScope
}

var _ host.SolutionEvents = (*Coalescer)(nil)

// Option configures a Coalescer.
type Option func(*Coalescer)

// WithLogger overrides the default component logger.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Coalescer) { c.log = log }
}

// WithThreadChecks forces the coordinating-goroutine assertions on or off,
// overriding the HOSTSYNC_THREAD_CHECKS environment default.
func WithThreadChecks(on bool) Option {
	return func(c *Coalescer) { c.guard.SetStrict(on) }
}

// New creates a Coalescer bound to the given shell. The coalescer does not
// subscribe to shell events until the first StartTracking call.
func New(shell host.Shell, opts ...Option) *Coalescer {
	c := &Coalescer{
		shell:              shell,
		guard:              foreground.NewGuard("coalescer"),
		solutionLoadScopes: make(map[*project.Project]*project.BatchScope),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.NewLogger("coalescer")
	}
	return c
}

// StartTracking begins coalescing changes for a project. On first use it
// subscribes to the shell's lifecycle events and queries whether the solution
// is already fully loaded; if it is, no scope is opened, since per-project
// changes outside a load window are not coalesced.
//
// Tracking a project that is already tracked in the whole-solution window is
// a programming error and panics.
func (c *Coalescer) StartTracking(p *project.Project) {
	c.guard.Check()
	c.ensureSubscribed()

	if c.solutionFullyLoaded {
		c.log.WithField("project", p.ID()).Debug("Solution fully loaded; not coalescing")
		return
	}

	if _, tracked := c.solutionLoadScopes[p]; tracked {
		panic(errors.TrackDuplicate(string(p.ID())))
	}

	c.solutionLoadScopes[p] = p.OpenBatchScope()
	c.log.WithField("project", p.ID()).Debug("Opened whole-solution batch scope")
}

// StopTracking closes and forgets any scopes held for the project, in both
// windows. It is an idempotent no-op for untracked projects. Callers must
// invoke it before discarding a project, or its scopes leak.
func (c *Coalescer) StopTracking(p *project.Project) {
	c.guard.Check()

	if scope, ok := c.solutionLoadScopes[p]; ok {
		delete(c.solutionLoadScopes, p)
		scope.Close()
		c.log.WithField("project", p.ID()).Debug("Closed whole-solution batch scope on untrack")
	}

	if c.foregroundScopes != nil {
		if scope, ok := c.foregroundScopes[p]; ok {
			delete(c.foregroundScopes, p)
			scope.Close()
			c.log.WithField("project", p.ID()).Debug("Closed foreground batch scope on untrack")
		}
	}
}

// TrackIntoForegroundWindow opens a scope for the project in the currently
// open foreground batch window. It is a no-op when no foreground window is
// open. Tracking a project twice into the same window panics.
func (c *Coalescer) TrackIntoForegroundWindow(p *project.Project) {
	c.guard.Check()

	if c.foregroundScopes == nil {
		return
	}
	if _, tracked := c.foregroundScopes[p]; tracked {
		panic(errors.TrackDuplicate(string(p.ID())))
	}
	c.foregroundScopes[p] = p.OpenBatchScope()
	c.log.WithField("project", p.ID()).Debug("Opened foreground batch scope")
}

// TrackedProjects reports how many projects hold a whole-solution scope.
func (c *Coalescer) TrackedProjects() int {
	c.guard.Check()
	return len(c.solutionLoadScopes)
}

// SolutionFullyLoaded reports the coalescer's view of the shell's load state.
func (c *Coalescer) SolutionFullyLoaded() bool {
	c.guard.Check()
	return c.solutionFullyLoaded
}

// ensureSubscribed advises the shell's solution events exactly once and takes
// an initial reading of the fully-loaded context, covering the case where
// this component attaches after the solution already finished loading. A
// failed context query is swallowed and treated as "not loaded".
func (c *Coalescer) ensureSubscribed() {
	if c.subscribed {
		return
	}

	cookie, err := c.shell.AdviseSolutionEvents(c)
	if err != nil {
		// Stay unsubscribed; the next StartTracking retries.
		c.log.WithError(err).Warn("Failed to subscribe to solution events")
		return
	}
	c.subscribed = true
	c.log.WithField("cookie", cookie).Debug("Subscribed to solution events")

	active, err := c.shell.IsContextActive(host.ContextSolutionExistsAndFullyLoaded)
	if err != nil {
		c.log.WithError(err).Warn("Failed to query solution load state; assuming not loaded")
		active = false
	}
	c.solutionFullyLoaded = active
}

// OnBeforeOpenSolution implements host.SolutionEvents. A non-empty
// whole-solution window here means StopTracking was never called for some
// project before the previous solution closed; that is a caller bug, not a
// recoverable condition.
func (c *Coalescer) OnBeforeOpenSolution() error {
	c.guard.Check()

	if len(c.solutionLoadScopes) != 0 {
		panic(errors.StaleTracking(len(c.solutionLoadScopes)))
	}
	c.solutionFullyLoaded = false
	c.log.Debug("Solution opening; coalescing enabled")
	return nil
}

// OnAfterOpenSolution implements host.SolutionEvents. Not handled.
func (c *Coalescer) OnAfterOpenSolution() error {
	return nil
}

// OnBeforeCloseSolution implements host.SolutionEvents. Marks the solution
// not fully loaded so projects added before the next open are coalesced again.
func (c *Coalescer) OnBeforeCloseSolution() error {
	c.guard.Check()

	c.solutionFullyLoaded = false
	c.log.Debug("Solution closing; coalescing re-enabled for next load")
	return nil
}

// OnBeforeLoadProjectBatch implements host.SolutionEvents. Foreground batches
// open a fresh nested window; background idle batches do not.
func (c *Coalescer) OnBeforeLoadProjectBatch(backgroundIdle bool) error {
	c.guard.Check()

	if backgroundIdle {
		return nil
	}
	if c.foregroundScopes != nil {
		// The shell should close every batch it opens. Flush the stale window
		// rather than leaking its scopes.
		c.log.WithField("stale_scopes", len(c.foregroundScopes)).
			Warn("Foreground batch opened while previous window still open; flushing stale window")
		c.closeForegroundWindow()
	}
	c.foregroundScopes = make(map[*project.Project]*project.BatchScope)
	c.log.Debug("Foreground batch window opened")
	return nil
}

// OnAfterLoadProjectBatch implements host.SolutionEvents. Closes and discards
// the foreground window if one is open.
func (c *Coalescer) OnAfterLoadProjectBatch(backgroundIdle bool) error {
	c.guard.Check()

	if c.foregroundScopes != nil {
		n := len(c.foregroundScopes)
		c.closeForegroundWindow()
		c.log.WithField("projects", n).Debug("Foreground batch window closed")
	}
	return nil
}

// OnBeforeBackgroundSolutionLoadBegins implements host.SolutionEvents. Not handled.
func (c *Coalescer) OnBeforeBackgroundSolutionLoadBegins() error {
	return nil
}

// OnAfterBackgroundSolutionLoadComplete implements host.SolutionEvents. The
// terminal signal of the bulk load: every whole-solution scope flushes.
func (c *Coalescer) OnAfterBackgroundSolutionLoadComplete() error {
	c.guard.Check()

	n := len(c.solutionLoadScopes)
	for p, scope := range c.solutionLoadScopes {
		delete(c.solutionLoadScopes, p)
		scope.Close()
	}
	c.solutionFullyLoaded = true
	c.log.WithField("projects", n).Debug("Background solution load complete; flushed whole-solution scopes")
	return nil
}

// OnQueryBackgroundLoadDelay implements host.SolutionEvents. Reserved for
// future use; the load is never delayed.
func (c *Coalescer) OnQueryBackgroundLoadDelay() (bool, error) {
	return false, nil
}

func (c *Coalescer) closeForegroundWindow() {
	for p, scope := range c.foregroundScopes {
		delete(c.foregroundScopes, p)
		scope.Close()
	}
	c.foregroundScopes = nil
}
