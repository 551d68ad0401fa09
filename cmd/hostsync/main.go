package main

import (
	"os"

	"github.com/grovetools/hostsync/cli"
	"github.com/grovetools/hostsync/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"hostsync",
		"Keep an in-memory workspace model synchronized with a host IDE shell",
	)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewReplayCmd())
	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
