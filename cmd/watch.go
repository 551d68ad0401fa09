package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/grovetools/hostsync/cli"
	"github.com/grovetools/hostsync/internal/watch"
	"github.com/grovetools/hostsync/pkg/coalesce"
	"github.com/grovetools/hostsync/pkg/host"
	"github.com/grovetools/hostsync/pkg/project"
	"github.com/grovetools/hostsync/pkg/workspace"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// logSink logs every coalesced notification a watched workspace produces.
type logSink struct {
	log *logrus.Entry
}

func (s *logSink) ProjectChanged(c project.Change) {
	s.log.WithFields(logrus.Fields{"project": c.Project, "field": c.Field}).Info("Project changed")
}

func (s *logSink) BatchStarted(id project.ID) {
	s.log.WithField("project", id).Debug("Batch window opened")
}

func (s *logSink) BatchFlushed(id project.ID, changes int) {
	s.log.WithFields(logrus.Fields{"project": id, "changes": changes}).Info("Batch window flushed")
}

// NewWatchCmd creates the `watch` command
func NewWatchCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"watch <dir>",
		"Watch a workspace root and log coalesced project updates",
	)
	cmd.Long = `Watch observes a workspace root directory. Project marker files (` + watch.MarkerSuffix + `)
appearing or disappearing add and remove projects from an in-memory workspace
model, and every coalesced change notification is logged. Runs until interrupted.`
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := cli.GetLogger(cmd)
		cfg := cli.LoadConfig(cmd)

		shell := host.NewSimShell()
		entry := logger.WithField("component", "watch")

		c := coalesce.New(shell, coalesce.WithLogger(entry), coalesce.WithThreadChecks(cfg.ThreadChecks))
		model := workspace.NewModel(c, &logSink{log: entry}, workspace.WithLogger(entry))

		w, err := watch.NewWatcher(args[0], model, cfg.Watch, watch.WithLogger(entry))
		if err != nil {
			return err
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	}

	return cmd
}
