package host

// SimShell is an in-process Shell used by tests and the replay command. It
// dispatches events synchronously on the calling goroutine, in subscription
// order, and maintains the fully-loaded context the way a real shell does.
//
// SimShell is not safe for concurrent use; like the components it drives, it
// belongs to one coordinating goroutine.
type SimShell struct {
	nextCookie  uint32
	subscribers []subscription
	contexts    map[ContextID]bool

	// AdviseErr, when set, is returned by AdviseSolutionEvents.
	AdviseErr error
	// QueryErr, when set, is returned by IsContextActive.
	QueryErr error
}

type subscription struct {
	cookie uint32
	events SolutionEvents
}

// NewSimShell creates an empty simulated shell with no active contexts.
func NewSimShell() *SimShell {
	return &SimShell{contexts: make(map[ContextID]bool)}
}

// AdviseSolutionEvents implements Shell.
func (s *SimShell) AdviseSolutionEvents(events SolutionEvents) (uint32, error) {
	if s.AdviseErr != nil {
		return 0, s.AdviseErr
	}
	s.nextCookie++
	s.subscribers = append(s.subscribers, subscription{cookie: s.nextCookie, events: events})
	return s.nextCookie, nil
}

// IsContextActive implements Shell.
func (s *SimShell) IsContextActive(id ContextID) (bool, error) {
	if s.QueryErr != nil {
		return false, s.QueryErr
	}
	return s.contexts[id], nil
}

// SetContext sets a UI context's active state directly, e.g. to simulate a
// subscriber attaching after the solution already finished loading.
func (s *SimShell) SetContext(id ContextID, active bool) {
	s.contexts[id] = active
}

// Subscribers reports how many subscriptions are advised.
func (s *SimShell) Subscribers() int { return len(s.subscribers) }

func (s *SimShell) each(f func(SolutionEvents) error) error {
	for _, sub := range s.subscribers {
		if err := f(sub.events); err != nil {
			return err
		}
	}
	return nil
}

// FireBeforeOpenSolution announces a solution open and deactivates the
// fully-loaded context.
func (s *SimShell) FireBeforeOpenSolution() error {
	s.contexts[ContextSolutionExistsAndFullyLoaded] = false
	return s.each(func(e SolutionEvents) error { return e.OnBeforeOpenSolution() })
}

// FireAfterOpenSolution announces the solution finished opening.
func (s *SimShell) FireAfterOpenSolution() error {
	return s.each(func(e SolutionEvents) error { return e.OnAfterOpenSolution() })
}

// FireBeforeCloseSolution announces a solution close and deactivates the
// fully-loaded context.
func (s *SimShell) FireBeforeCloseSolution() error {
	s.contexts[ContextSolutionExistsAndFullyLoaded] = false
	return s.each(func(e SolutionEvents) error { return e.OnBeforeCloseSolution() })
}

// FireBeforeLoadProjectBatch announces the start of a project load batch.
func (s *SimShell) FireBeforeLoadProjectBatch(backgroundIdle bool) error {
	return s.each(func(e SolutionEvents) error { return e.OnBeforeLoadProjectBatch(backgroundIdle) })
}

// FireAfterLoadProjectBatch announces the end of a project load batch.
func (s *SimShell) FireAfterLoadProjectBatch(backgroundIdle bool) error {
	return s.each(func(e SolutionEvents) error { return e.OnAfterLoadProjectBatch(backgroundIdle) })
}

// FireBeforeBackgroundSolutionLoadBegins announces the async bulk load start.
func (s *SimShell) FireBeforeBackgroundSolutionLoadBegins() error {
	return s.each(func(e SolutionEvents) error { return e.OnBeforeBackgroundSolutionLoadBegins() })
}

// FireAfterBackgroundSolutionLoadComplete announces bulk load completion and
// activates the fully-loaded context.
func (s *SimShell) FireAfterBackgroundSolutionLoadComplete() error {
	s.contexts[ContextSolutionExistsAndFullyLoaded] = true
	return s.each(func(e SolutionEvents) error { return e.OnAfterBackgroundSolutionLoadComplete() })
}

// QueryBackgroundLoadDelay polls subscribers; any true answer delays the load.
func (s *SimShell) QueryBackgroundLoadDelay() (bool, error) {
	delay := false
	err := s.each(func(e SolutionEvents) error {
		d, err := e.OnQueryBackgroundLoadDelay()
		if d {
			delay = true
		}
		return err
	})
	return delay, err
}
