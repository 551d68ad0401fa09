// Package project models a single open project as the host-integration layer
// sees it: identity, display bookkeeping, and batch scopes that coalesce
// change notifications while bulk operations are in flight.
package project

import "reflect"

// ID uniquely identifies a project within a workspace model.
type ID string

// Change describes a single project mutation delivered to a sink.
type Change struct {
	Project ID
	Field   string
	Value   string
}

// NotificationSink receives project change notifications. While one or more
// batch scopes are open on a project, individual changes are withheld and the
// sink instead sees one BatchStarted/BatchFlushed pair per window.
type NotificationSink interface {
	// ProjectChanged is delivered immediately for changes outside any batch window.
	ProjectChanged(change Change)
	// BatchStarted fires when a project's first batch scope opens.
	BatchStarted(id ID)
	// BatchFlushed fires when a project's last batch scope closes. changes is
	// the number of mutations coalesced inside the window (zero is possible).
	BatchFlushed(id ID, changes int)
}

// Project is a mutable record for one open project. All methods must be
// called from the owning model's coordinating goroutine.
type Project struct {
	id   ID
	sink NotificationSink

	displayName  string
	filePath     string
	assemblyName string
	outputPath   string

	openScopes int
	pending    int
}

// discardSink drops all notifications.
type discardSink struct{}

func (discardSink) ProjectChanged(Change) {}
func (discardSink) BatchStarted(ID)       {}
func (discardSink) BatchFlushed(ID, int)  {}

// New creates a project record. A nil sink, including a typed nil pointer
// boxed into the interface, discards notifications.
func New(id ID, sink NotificationSink) *Project {
	if isNilSink(sink) {
		sink = discardSink{}
	}
	return &Project{id: id, sink: sink}
}

func isNilSink(sink NotificationSink) bool {
	if sink == nil {
		return true
	}
	v := reflect.ValueOf(sink)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// ID returns the project's identity.
func (p *Project) ID() ID { return p.id }

// DisplayName returns the project's display name.
func (p *Project) DisplayName() string { return p.displayName }

// FilePath returns the path of the project's definition file.
func (p *Project) FilePath() string { return p.filePath }

// AssemblyName returns the project's output assembly name.
func (p *Project) AssemblyName() string { return p.assemblyName }

// OutputPath returns the project's build output path.
func (p *Project) OutputPath() string { return p.outputPath }

// SetDisplayName updates the display name.
func (p *Project) SetDisplayName(name string) {
	if p.displayName == name {
		return
	}
	p.displayName = name
	p.changed("display_name", name)
}

// SetFilePath updates the project file path.
func (p *Project) SetFilePath(path string) {
	if p.filePath == path {
		return
	}
	p.filePath = path
	p.changed("file_path", path)
}

// SetAssemblyName updates the output assembly name.
func (p *Project) SetAssemblyName(name string) {
	if p.assemblyName == name {
		return
	}
	p.assemblyName = name
	p.changed("assembly_name", name)
}

// SetOutputPath updates the build output path.
func (p *Project) SetOutputPath(path string) {
	if p.outputPath == path {
		return
	}
	p.outputPath = path
	p.changed("output_path", path)
}

// OpenScopes reports how many batch scopes are currently open.
func (p *Project) OpenScopes() int { return p.openScopes }

// PendingChanges reports how many mutations are waiting for the current
// window to flush.
func (p *Project) PendingChanges() int { return p.pending }

func (p *Project) changed(field, value string) {
	if p.openScopes > 0 {
		p.pending++
		return
	}
	p.sink.ProjectChanged(Change{Project: p.id, Field: field, Value: value})
}
