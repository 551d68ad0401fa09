package cli

import (
	"github.com/grovetools/hostsync/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetLogger creates a logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	// Use the shared logging package which is already configured
	entry := logging.NewLogger("hostsync-cli")
	logger := entry.Logger

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
