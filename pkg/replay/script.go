// Package replay runs scripted solution-lifecycle sequences against a
// coalescer, for debugging batching behavior outside a live host shell.
package replay

import (
	"fmt"
	"os"

	"github.com/grovetools/hostsync/errors"
	"gopkg.in/yaml.v3"
)

// Lifecycle event names usable in a script's event steps.
const (
	EventBeforeOpenSolution                  = "before-open-solution"
	EventAfterOpenSolution                   = "after-open-solution"
	EventBeforeCloseSolution                 = "before-close-solution"
	EventBeforeLoadProjectBatch              = "before-load-project-batch"
	EventAfterLoadProjectBatch               = "after-load-project-batch"
	EventBeforeBackgroundSolutionLoadBegins  = "before-background-solution-load-begins"
	EventAfterBackgroundSolutionLoadComplete = "after-background-solution-load-complete"
)

var knownEvents = map[string]bool{
	EventBeforeOpenSolution:                  true,
	EventAfterOpenSolution:                   true,
	EventBeforeCloseSolution:                 true,
	EventBeforeLoadProjectBatch:              true,
	EventAfterLoadProjectBatch:               true,
	EventBeforeBackgroundSolutionLoadBegins:  true,
	EventAfterBackgroundSolutionLoadComplete: true,
}

// Step is one action in a script. Exactly one of Event, Track,
// TrackForeground, Untrack, or Change must be set.
type Step struct {
	// Event fires a host lifecycle event by name.
	Event string `yaml:"event,omitempty"`
	// Background marks a load-batch event as a background idle batch.
	Background bool `yaml:"background,omitempty"`

	// Track starts tracking the named project, creating it on first use.
	Track string `yaml:"track,omitempty"`
	// TrackForeground tracks the named project into the open foreground window.
	TrackForeground string `yaml:"track_foreground,omitempty"`
	// Untrack stops tracking the named project.
	Untrack string `yaml:"untrack,omitempty"`

	// Change mutates a field of the named project.
	Change string `yaml:"change,omitempty"`
	Field  string `yaml:"field,omitempty"`
	Value  string `yaml:"value,omitempty"`
}

// Script is an ordered lifecycle sequence.
type Script struct {
	Name  string `yaml:"name,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ScriptNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeScriptInvalid, "failed to read replay script").
			WithDetail("path", path)
	}

	script, err := Parse(data)
	if err != nil {
		return nil, errors.ScriptInvalid(path, err)
	}
	return script, nil
}

// Parse parses and validates script data.
func Parse(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	for i, step := range script.Steps {
		actions := 0
		for _, set := range []bool{
			step.Event != "",
			step.Track != "",
			step.TrackForeground != "",
			step.Untrack != "",
			step.Change != "",
		} {
			if set {
				actions++
			}
		}
		if actions != 1 {
			return nil, fmt.Errorf("step %d: exactly one of event, track, track_foreground, untrack, change required", i+1)
		}
		if step.Event != "" && !knownEvents[step.Event] {
			return nil, fmt.Errorf("step %d: unknown event %q", i+1, step.Event)
		}
		if step.Change != "" && step.Field == "" {
			return nil, fmt.Errorf("step %d: change requires a field", i+1)
		}
	}

	return &script, nil
}
