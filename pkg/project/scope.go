package project

import "github.com/grovetools/hostsync/errors"

// BatchScope is a suppressed-notification window on one project. Scopes nest:
// notifications resume only when the last open scope closes. Close must be
// called exactly once; a second call is a programming error.
type BatchScope struct {
	project *Project
	closed  bool
}

// OpenBatchScope begins a batch window on the project and returns its handle.
func (p *Project) OpenBatchScope() *BatchScope {
	p.openScopes++
	if p.openScopes == 1 {
		p.sink.BatchStarted(p.id)
	}
	return &BatchScope{project: p}
}

// Close ends the batch window. Closing the project's last open scope flushes
// one coalesced notification carrying the number of changes the window absorbed.
func (s *BatchScope) Close() {
	if s.closed {
		panic(errors.ScopeReclosed(string(s.project.id)))
	}
	s.closed = true

	p := s.project
	p.openScopes--
	if p.openScopes == 0 {
		changes := p.pending
		p.pending = 0
		p.sink.BatchFlushed(p.id, changes)
	}
}
