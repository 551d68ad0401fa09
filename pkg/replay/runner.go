package replay

import (
	"fmt"

	"github.com/grovetools/hostsync/pkg/coalesce"
	"github.com/grovetools/hostsync/pkg/host"
	"github.com/grovetools/hostsync/pkg/project"
	"github.com/sirupsen/logrus"
)

// Result summarizes what a script run did to the batching layer.
type Result struct {
	// Projects is the number of distinct projects the script touched.
	Projects int `json:"projects"`
	// WindowsOpened counts project-level batch windows that opened.
	WindowsOpened int `json:"windows_opened"`
	// WindowsFlushed counts project-level batch windows that flushed.
	WindowsFlushed int `json:"windows_flushed"`
	// LiveChanges counts changes delivered immediately, outside any window.
	LiveChanges int `json:"live_changes"`
	// CoalescedChanges counts changes absorbed into flushed windows.
	CoalescedChanges int `json:"coalesced_changes"`
}

// statsSink tallies notification traffic during a run.
type statsSink struct {
	result *Result
}

func (s *statsSink) ProjectChanged(project.Change) { s.result.LiveChanges++ }
func (s *statsSink) BatchStarted(project.ID)       { s.result.WindowsOpened++ }
func (s *statsSink) BatchFlushed(_ project.ID, changes int) {
	s.result.WindowsFlushed++
	s.result.CoalescedChanges += changes
}

// Run executes the script against a fresh simulated shell and coalescer.
func Run(script *Script, log *logrus.Entry) (*Result, error) {
	result := &Result{}
	sink := &statsSink{result: result}

	shell := host.NewSimShell()
	c := coalesce.New(shell, coalesce.WithLogger(log))
	projects := make(map[string]*project.Project)

	get := func(name string) *project.Project {
		p, ok := projects[name]
		if !ok {
			p = project.New(project.ID(name), sink)
			projects[name] = p
		}
		return p
	}

	for i, step := range script.Steps {
		var err error
		switch {
		case step.Event != "":
			err = fire(shell, step)
		case step.Track != "":
			c.StartTracking(get(step.Track))
		case step.TrackForeground != "":
			c.TrackIntoForegroundWindow(get(step.TrackForeground))
		case step.Untrack != "":
			c.StopTracking(get(step.Untrack))
		case step.Change != "":
			err = change(get(step.Change), step.Field, step.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	result.Projects = len(projects)
	return result, nil
}

func fire(shell *host.SimShell, step Step) error {
	switch step.Event {
	case EventBeforeOpenSolution:
		return shell.FireBeforeOpenSolution()
	case EventAfterOpenSolution:
		return shell.FireAfterOpenSolution()
	case EventBeforeCloseSolution:
		return shell.FireBeforeCloseSolution()
	case EventBeforeLoadProjectBatch:
		return shell.FireBeforeLoadProjectBatch(step.Background)
	case EventAfterLoadProjectBatch:
		return shell.FireAfterLoadProjectBatch(step.Background)
	case EventBeforeBackgroundSolutionLoadBegins:
		return shell.FireBeforeBackgroundSolutionLoadBegins()
	case EventAfterBackgroundSolutionLoadComplete:
		return shell.FireAfterBackgroundSolutionLoadComplete()
	default:
		return fmt.Errorf("unknown event %q", step.Event)
	}
}

func change(p *project.Project, field, value string) error {
	switch field {
	case "display_name":
		p.SetDisplayName(value)
	case "file_path":
		p.SetFilePath(value)
	case "assembly_name":
		p.SetAssemblyName(value)
	case "output_path":
		p.SetOutputPath(value)
	default:
		return fmt.Errorf("unknown project field %q", field)
	}
	return nil
}
