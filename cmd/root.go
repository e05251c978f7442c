package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	logger "github.com/Pamacea/shadow-secret/internal/logging"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	rootCmd = &cobra.Command{
		Use:   "shadow-secret",
		Short: "Inject secrets into config files for a session, restore them on exit",
		Long: `shadow-secret keeps plaintext secrets out of your working tree.

It decrypts a sops or age vault, substitutes $PLACEHOLDER tokens in your
config files with the real values for the duration of a session, and
restores the original files when the session ends, even on Ctrl+C or a
crash.

Run 'shadow-secret help <command>' for details on a specific command.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initProjectCmd)
	rootCmd.AddCommand(pushCloudCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Helper functions for testing

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetUnlockCommandState()
	resetDoctorCommandState()
	resetInitProjectCommandState()
	resetPushCloudCommandState()
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
