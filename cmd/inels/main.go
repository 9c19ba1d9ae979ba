// Inels is a command line client for iNels BUS controllers.
//
// It talks XML-RPC to the iNels Connect Server, lists the devices of a
// room, reads and writes their values, and can bridge a set of rooms onto
// an MQTT broker.
//
// Usage:
//
//	inels [command] [flags]
//
// Controller settings are read from the configuration file and can be
// overridden with flags. See 'inels --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/inels/internal/api"
	"github.com/muurk/inels/internal/logging"
	"github.com/muurk/inels/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", api.GetShortErrorMessage(err))
		logging.Debug("command failed", zap.Error(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inels",
	Short: "iNels BUS client",
	Long: `A command line client for iNels BUS controllers.

Lists the devices of a room, reads and writes device values through the
iNels Connect Server XML-RPC interface, and bridges rooms onto MQTT.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inels %s\n", version.Full())
	},
}
