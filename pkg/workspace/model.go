// Package workspace maintains the in-memory model of open projects and owns
// their tracking lifecycle: adding a project starts coalescing, removing one
// stops it before the record is discarded.
package workspace

import (
	"path/filepath"
	"sort"

	"github.com/grovetools/hostsync/errors"
	"github.com/grovetools/hostsync/logging"
	"github.com/grovetools/hostsync/pkg/coalesce"
	"github.com/grovetools/hostsync/pkg/project"
	"github.com/sirupsen/logrus"
)

// Model is the set of currently open projects, keyed by ID with path lookup.
// Like the coalescer it drives, a Model belongs to one coordinating
// goroutine; it carries no internal locking.
type Model struct {
	log       *logrus.Entry
	coalescer *coalesce.Coalescer
	sink      project.NotificationSink
	projects  map[project.ID]*project.Project
}

// Option configures a Model.
type Option func(*Model)

// WithLogger overrides the default component logger.
func WithLogger(log *logrus.Entry) Option {
	return func(m *Model) { m.log = log }
}

// NewModel creates an empty workspace model. sink receives the coalesced
// change notifications of every project the model owns; it may be nil.
func NewModel(coalescer *coalesce.Coalescer, sink project.NotificationSink, opts ...Option) *Model {
	m := &Model{
		coalescer: coalescer,
		sink:      sink,
		projects:  make(map[project.ID]*project.Project),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logging.NewLogger("workspace")
	}
	return m
}

// Add registers a project and starts tracking it. The file path is recorded
// after tracking begins, so during a solution load it lands inside the
// coalescing window. Adding an ID that is already present is an error.
func (m *Model) Add(id project.ID, filePath string) (*project.Project, error) {
	if _, exists := m.projects[id]; exists {
		return nil, errors.New(errors.ErrCodeInvalidInput, "project already exists in workspace").
			WithDetail("project", string(id))
	}

	p := project.New(id, m.sink)
	m.projects[id] = p
	m.coalescer.StartTracking(p)
	if filePath != "" {
		p.SetFilePath(filepath.Clean(filePath))
	}

	m.log.WithFields(logrus.Fields{"project": id, "path": filePath}).Info("Project added to workspace")
	return p, nil
}

// Remove stops tracking the project and discards it. Returns false if the
// project was not present.
func (m *Model) Remove(id project.ID) bool {
	p, exists := m.projects[id]
	if !exists {
		return false
	}

	// Stop tracking before discarding so no scope leaks.
	m.coalescer.StopTracking(p)
	delete(m.projects, id)

	m.log.WithField("project", id).Info("Project removed from workspace")
	return true
}

// FindByID returns the project with the given ID, or nil.
func (m *Model) FindByID(id project.ID) *project.Project {
	return m.projects[id]
}

// FindByPath returns the project whose file path matches, or nil.
func (m *Model) FindByPath(path string) *project.Project {
	cleaned := filepath.Clean(path)
	for _, p := range m.projects {
		if p.FilePath() == cleaned {
			return p
		}
	}
	return nil
}

// All returns the open projects, ordered by ID for deterministic iteration.
func (m *Model) All() []*project.Project {
	result := make([]*project.Project, 0, len(m.projects))
	for _, p := range m.projects {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// Len reports how many projects are open.
func (m *Model) Len() int { return len(m.projects) }

// Close removes every project, stopping tracking for each. Call before a
// solution closes so no scopes survive into the next load.
func (m *Model) Close() {
	for id := range m.projects {
		m.Remove(id)
	}
}
