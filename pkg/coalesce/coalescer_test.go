package coalesce_test

import (
	"fmt"
	"testing"

	"github.com/grovetools/hostsync/errors"
	"github.com/grovetools/hostsync/pkg/coalesce"
	"github.com/grovetools/hostsync/pkg/host"
	"github.com/grovetools/hostsync/pkg/project"
	"github.com/grovetools/hostsync/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoalescer(shell host.Shell) *coalesce.Coalescer {
	return coalesce.New(shell, coalesce.WithLogger(testutil.SilentLogger()))
}

func TestWholeSolutionLoadCoalescesTrackedProjects(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)

	require.NoError(t, shell.FireBeforeOpenSolution()) // no subscribers yet

	a := project.New("a", sink)
	b := project.New("b", sink)
	c.StartTracking(a)
	c.StartTracking(b)

	require.Equal(t, 1, shell.Subscribers())
	require.Equal(t, 2, c.TrackedProjects())
	assert.Equal(t, 1, sink.StartedCount("a"))
	assert.Equal(t, 1, sink.StartedCount("b"))
	assert.Empty(t, sink.Flushed, "scopes stay open until the load completes")

	// Changes made during the load are withheld.
	a.SetDisplayName("A")
	a.SetAssemblyName("a.dll")
	assert.Empty(t, sink.Changes)

	require.NoError(t, shell.FireAfterBackgroundSolutionLoadComplete())

	assert.Zero(t, c.TrackedProjects())
	assert.Equal(t, 1, sink.FlushedCount("a"))
	assert.Equal(t, 1, sink.FlushedCount("b"))
	assert.True(t, c.SolutionFullyLoaded())
}

func TestSubscriptionIsIdempotent(t *testing.T) {
	shell := host.NewSimShell()
	c := newCoalescer(shell)

	c.StartTracking(project.New("a", nil))
	c.StartTracking(project.New("b", nil))

	assert.Equal(t, 1, shell.Subscribers())
}

func TestNoScopeWhenSolutionAlreadyLoaded(t *testing.T) {
	shell := host.NewSimShell()
	shell.SetContext(host.ContextSolutionExistsAndFullyLoaded, true)
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)

	p := project.New("late", sink)
	c.StartTracking(p)

	assert.Empty(t, sink.Started, "no scope outside a load window")
	assert.Zero(t, c.TrackedProjects())

	// Untracking an untracked project is a safe no-op.
	c.StopTracking(p)
	assert.Empty(t, sink.Flushed)
}

func TestFailedContextQueryAssumesNotLoaded(t *testing.T) {
	shell := host.NewSimShell()
	shell.SetContext(host.ContextSolutionExistsAndFullyLoaded, true)
	shell.QueryErr = fmt.Errorf("shell unavailable")
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)

	c.StartTracking(project.New("a", sink))

	// Conservative default: coalesce as if the load were still in flight.
	assert.Equal(t, 1, c.TrackedProjects())
	assert.Equal(t, 1, sink.StartedCount("a"))
}

func TestFailedSubscriptionRetriesOnNextTracking(t *testing.T) {
	shell := host.NewSimShell()
	shell.AdviseErr = fmt.Errorf("shell busy")
	c := newCoalescer(shell)

	c.StartTracking(project.New("a", nil))
	assert.Zero(t, shell.Subscribers())

	shell.AdviseErr = nil
	c.StartTracking(project.New("b", nil))
	assert.Equal(t, 1, shell.Subscribers())
}

func TestStopTrackingClosesScopeEarly(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)

	p := project.New("a", sink)
	c.StartTracking(p)
	c.StopTracking(p)

	require.Equal(t, 1, sink.FlushedCount("a"))
	assert.Zero(t, c.TrackedProjects())

	// The later load-complete event must not double-close.
	require.NoError(t, shell.FireAfterBackgroundSolutionLoadComplete())
	assert.Equal(t, 1, sink.FlushedCount("a"))
}

func TestDuplicateStartTrackingPanics(t *testing.T) {
	shell := host.NewSimShell()
	c := newCoalescer(shell)
	p := project.New("a", nil)
	c.StartTracking(p)

	defer func() {
		v := recover()
		require.NotNil(t, v)
		err, ok := v.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, errors.ErrCodeTrackDuplicate))
	}()
	c.StartTracking(p)
}

func TestStaleTrackingOnSolutionOpenIsFatal(t *testing.T) {
	shell := host.NewSimShell()
	c := newCoalescer(shell)
	c.StartTracking(project.New("stale", nil))

	defer func() {
		v := recover()
		require.NotNil(t, v)
		err, ok := v.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, errors.ErrCodeStaleTracking))
	}()
	_ = shell.FireBeforeOpenSolution()
}

func TestEmptyForegroundBatchPerformsNoScopeOperations(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)
	c.StartTracking(project.New("a", sink)) // subscribe

	startedBefore := len(sink.Started)
	flushedBefore := len(sink.Flushed)

	require.NoError(t, shell.FireBeforeLoadProjectBatch(false))
	require.NoError(t, shell.FireAfterLoadProjectBatch(false))

	assert.Equal(t, startedBefore, len(sink.Started))
	assert.Equal(t, flushedBefore, len(sink.Flushed))
}

func TestBackgroundIdleBatchOpensNoForegroundWindow(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)
	c.StartTracking(project.New("a", sink)) // subscribe

	require.NoError(t, shell.FireBeforeLoadProjectBatch(true))

	// No window to track into.
	p := project.New("b", sink)
	c.TrackIntoForegroundWindow(p)
	assert.Zero(t, sink.StartedCount("b"))

	require.NoError(t, shell.FireAfterLoadProjectBatch(true))
}

func TestForegroundAndWholeSolutionWindowsNestIndependently(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)

	require.NoError(t, shell.FireBeforeOpenSolution())

	d := project.New("d", sink)
	c.StartTracking(d)

	require.NoError(t, shell.FireBeforeLoadProjectBatch(false))
	c.TrackIntoForegroundWindow(d)

	// d now holds a scope in both windows: one project-level batch window.
	assert.Equal(t, 1, sink.StartedCount("d"))
	assert.Equal(t, 2, d.OpenScopes())

	require.NoError(t, shell.FireAfterLoadProjectBatch(false))

	// The foreground scope closed, but the whole-solution scope keeps the
	// project's window open.
	assert.Equal(t, 1, d.OpenScopes())
	assert.Zero(t, sink.FlushedCount("d"))

	require.NoError(t, shell.FireAfterBackgroundSolutionLoadComplete())
	assert.Equal(t, 1, sink.FlushedCount("d"))
	assert.Zero(t, d.OpenScopes())
}

func TestReopenedForegroundBatchFlushesStaleWindow(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)
	c.StartTracking(project.New("a", sink)) // subscribe

	require.NoError(t, shell.FireBeforeLoadProjectBatch(false))
	p := project.New("b", sink)
	c.TrackIntoForegroundWindow(p)
	assert.Equal(t, 1, sink.StartedCount("b"))

	// The shell opens a second batch without closing the first. The stale
	// window's scopes flush exactly once before the fresh window opens.
	require.NoError(t, shell.FireBeforeLoadProjectBatch(false))
	assert.Equal(t, 1, sink.FlushedCount("b"))
	assert.Zero(t, p.OpenScopes())

	// The fresh window is empty; closing it performs no scope operations.
	require.NoError(t, shell.FireAfterLoadProjectBatch(false))
	assert.Equal(t, 1, sink.StartedCount("b"))
	assert.Equal(t, 1, sink.FlushedCount("b"))
}

func TestSolutionCloseReenablesCoalescing(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)

	c.StartTracking(project.New("a", sink))
	require.NoError(t, shell.FireAfterBackgroundSolutionLoadComplete())
	require.True(t, c.SolutionFullyLoaded())

	require.NoError(t, shell.FireBeforeCloseSolution())
	require.False(t, c.SolutionFullyLoaded())

	// Projects added before the next open are coalesced again.
	p := project.New("b", sink)
	c.StartTracking(p)
	assert.Equal(t, 1, sink.StartedCount("b"))
	c.StopTracking(p)
}

func TestFullSolutionLifecycle(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	c := newCoalescer(shell)

	for cycle := 0; cycle < 2; cycle++ {
		require.NoError(t, shell.FireBeforeOpenSolution())

		projects := make([]*project.Project, 3)
		for i := range projects {
			projects[i] = project.New(project.ID(fmt.Sprintf("cycle%d-p%d", cycle, i)), sink)
			c.StartTracking(projects[i])
		}
		require.NoError(t, shell.FireAfterOpenSolution())
		require.NoError(t, shell.FireBeforeBackgroundSolutionLoadBegins())
		require.NoError(t, shell.FireAfterBackgroundSolutionLoadComplete())

		for _, p := range projects {
			assert.Equal(t, 1, sink.FlushedCount(p.ID()))
			c.StopTracking(p) // no-op; scopes already flushed
			assert.Equal(t, 1, sink.FlushedCount(p.ID()))
		}

		require.NoError(t, shell.FireBeforeCloseSolution())
	}

	// Every opened window flushed exactly once.
	assert.Equal(t, len(sink.Started), len(sink.Flushed))
}

func TestQueryBackgroundLoadDelayAnswersNo(t *testing.T) {
	shell := host.NewSimShell()
	c := newCoalescer(shell)
	c.StartTracking(project.New("a", nil))

	delay, err := shell.QueryBackgroundLoadDelay()
	require.NoError(t, err)
	assert.False(t, delay)
}
