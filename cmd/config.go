package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/hostsync/cli"
	"github.com/grovetools/hostsync/config"
	"github.com/grovetools/hostsync/schema"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the `config` command
func NewConfigCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"config",
		"Inspect and validate hostsync configuration",
	)

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

// newConfigValidateCmd creates the `config validate` subcommand
func newConfigValidateCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"validate",
		"Validate the effective hostsync.yml against the embedded schema",
	)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			path, err = config.FindConfigFile(cwd)
			if err != nil {
				return err
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		validator, err := schema.NewValidator()
		if err != nil {
			return err
		}

		if err := validator.ValidateYAML(data); err != nil {
			return fmt.Errorf("%s is invalid:\n%w", path, err)
		}

		fmt.Printf("%s is valid\n", path)
		return nil
	}

	return cmd
}
