package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/hostsync/cli"
	"github.com/grovetools/hostsync/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the `version` command
func NewVersionCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"version",
		"Print version information",
	)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		info := version.GetInfo()

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Println(info.String())
		return nil
	}

	return cmd
}
