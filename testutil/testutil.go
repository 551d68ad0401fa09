// Package testutil provides shared helpers for hostsync tests.
package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/hostsync/pkg/project"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// SilentLogger returns a logger entry that discards all output.
func SilentLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// FlushEvent records one coalesced batch flush observed by a RecordingSink.
type FlushEvent struct {
	Project project.ID
	Changes int
}

// RecordingSink is a project.NotificationSink that records everything it sees.
type RecordingSink struct {
	Changes []project.Change
	Started []project.ID
	Flushed []FlushEvent
}

// ProjectChanged implements project.NotificationSink.
func (s *RecordingSink) ProjectChanged(c project.Change) {
	s.Changes = append(s.Changes, c)
}

// BatchStarted implements project.NotificationSink.
func (s *RecordingSink) BatchStarted(id project.ID) {
	s.Started = append(s.Started, id)
}

// BatchFlushed implements project.NotificationSink.
func (s *RecordingSink) BatchFlushed(id project.ID, changes int) {
	s.Flushed = append(s.Flushed, FlushEvent{Project: id, Changes: changes})
}

// StartedCount returns how many batch windows opened for the given project.
func (s *RecordingSink) StartedCount(id project.ID) int {
	n := 0
	for _, started := range s.Started {
		if started == id {
			n++
		}
	}
	return n
}

// FlushedCount returns how many batch windows flushed for the given project.
func (s *RecordingSink) FlushedCount(id project.ID) int {
	n := 0
	for _, f := range s.Flushed {
		if f.Project == id {
			n++
		}
	}
	return n
}

// WriteProjectMarker creates a project marker file under dir and returns its path.
func WriteProjectMarker(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".hsproj.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("name: "+name+"\n"), 0644))
	return path
}
