package cli

import (
	"os"

	"github.com/grovetools/hostsync/config"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for hostsync commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with standard hostsync flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Standard flags for all hostsync commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to hostsync.yml config file")

	return cmd
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the effective configuration, honoring the --config flag.
// A missing config file is not fatal; commands get defaults.
func LoadConfig(cmd *cobra.Command) *config.Config {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if cfg, err := config.Load(path); err == nil {
			return cfg
		}
		return &config.Config{}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return &config.Config{}
	}
	cfg, err := config.LoadFrom(cwd)
	if err != nil {
		return &config.Config{}
	}
	return cfg
}
