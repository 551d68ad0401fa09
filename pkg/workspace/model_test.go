package workspace_test

import (
	"testing"

	"github.com/grovetools/hostsync/errors"
	"github.com/grovetools/hostsync/pkg/coalesce"
	"github.com/grovetools/hostsync/pkg/host"
	"github.com/grovetools/hostsync/pkg/project"
	"github.com/grovetools/hostsync/pkg/workspace"
	"github.com/grovetools/hostsync/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(shell *host.SimShell, sink project.NotificationSink) *workspace.Model {
	c := coalesce.New(shell, coalesce.WithLogger(testutil.SilentLogger()))
	return workspace.NewModel(c, sink, workspace.WithLogger(testutil.SilentLogger()))
}

func TestAddTracksAndCoalescesPathChange(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	m := newModel(shell, sink)

	p, err := m.Add("app", "src/app.hsproj.yml")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, 1, m.Len())

	// The path change landed inside the load window, not as a live change.
	assert.Empty(t, sink.Changes)
	assert.Equal(t, 1, sink.StartedCount("app"))
	assert.Equal(t, 1, p.PendingChanges())
}

func TestAddDuplicateIDFails(t *testing.T) {
	shell := host.NewSimShell()
	m := newModel(shell, nil)

	_, err := m.Add("app", "")
	require.NoError(t, err)

	_, err = m.Add("app", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestTypedNilSinkThroughModel(t *testing.T) {
	shell := host.NewSimShell()
	var sink *testutil.RecordingSink
	m := newModel(shell, sink)

	// Add opens a batch scope, which notifies the sink; a typed-nil sink
	// must be discarded, not dispatched to.
	_, err := m.Add("app", "app.hsproj.yml")
	require.NoError(t, err)
	require.True(t, m.Remove("app"))
}

func TestRemoveStopsTracking(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	m := newModel(shell, sink)

	_, err := m.Add("app", "app.hsproj.yml")
	require.NoError(t, err)

	require.True(t, m.Remove("app"))
	assert.Equal(t, 1, sink.FlushedCount("app"))
	assert.Zero(t, m.Len())

	assert.False(t, m.Remove("app"), "second remove is a no-op")
}

func TestLookups(t *testing.T) {
	shell := host.NewSimShell()
	m := newModel(shell, nil)

	_, err := m.Add("lib", "pkgs/lib/lib.hsproj.yml")
	require.NoError(t, err)
	_, err = m.Add("app", "app/app.hsproj.yml")
	require.NoError(t, err)

	assert.NotNil(t, m.FindByID("lib"))
	assert.Nil(t, m.FindByID("missing"))

	found := m.FindByPath("pkgs/lib/lib.hsproj.yml")
	require.NotNil(t, found)
	assert.EqualValues(t, "lib", found.ID())
	assert.Nil(t, m.FindByPath("nope"))

	all := m.All()
	require.Len(t, all, 2)
	assert.EqualValues(t, "app", all[0].ID(), "All is ordered by ID")
	assert.EqualValues(t, "lib", all[1].ID())
}

func TestCloseAllowsNextSolutionToOpen(t *testing.T) {
	shell := host.NewSimShell()
	sink := &testutil.RecordingSink{}
	m := newModel(shell, sink)

	_, err := m.Add("a", "")
	require.NoError(t, err)
	_, err = m.Add("b", "")
	require.NoError(t, err)

	m.Close()
	assert.Zero(t, m.Len())
	assert.Equal(t, len(sink.Started), len(sink.Flushed))

	// With the model emptied the stale-tracking assertion stays quiet.
	require.NoError(t, shell.FireBeforeOpenSolution())
}
