package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/hostsync/cli"
	"github.com/grovetools/hostsync/pkg/replay"
	"github.com/spf13/cobra"
)

// NewReplayCmd creates the `replay` command
func NewReplayCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"replay <script.yml>",
		"Run a scripted solution-lifecycle sequence against the coalescer",
	)
	cmd.Long = `Replay executes a YAML lifecycle script against a simulated host shell and
prints batching statistics: how many batch windows opened and flushed, and how
many changes were coalesced versus delivered live. Useful for debugging why a
load sequence produces more notifications than expected.`
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := cli.GetLogger(cmd)

		script, err := replay.Load(args[0])
		if err != nil {
			return err
		}

		result, err := replay.Run(script, logger.WithField("component", "replay"))
		if err != nil {
			return fmt.Errorf("replay failed: %w", err)
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		name := script.Name
		if name == "" {
			name = args[0]
		}
		fmt.Printf("Replayed %s (%d steps)\n", name, len(script.Steps))
		fmt.Printf("  Projects:          %d\n", result.Projects)
		fmt.Printf("  Windows opened:    %d\n", result.WindowsOpened)
		fmt.Printf("  Windows flushed:   %d\n", result.WindowsFlushed)
		fmt.Printf("  Coalesced changes: %d\n", result.CoalescedChanges)
		fmt.Printf("  Live changes:      %d\n", result.LiveChanges)
		return nil
	}

	return cmd
}
