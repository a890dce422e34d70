package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dai/internal/config"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotReady indicates that `status --require-ready` found a
	// service that is not READY.
	ExitCodeNotReady = 2
)

// Flags shared by every command.
var (
	// configPath is the directory holding config.yaml.
	configPath string

	// debug enables debug logging.
	debug bool
)

// rootCmd represents the base command for the dai application.
var rootCmd = &cobra.Command{
	Use:   "dai",
	Short: "Run and inspect dai services",
	Long: `dai builds a container of services (log, timer, event, accounts, web3)
from a preset and a configuration file, brings them through their lifecycle
in dependency order and reports their state.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "dai version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		var fileErr *config.FileError
		if errors.As(err, &fileErr) {
			fmt.Fprintln(os.Stderr, fileErr.Explain())
		}
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	var notReady *NotReadyError
	if errors.As(err, &notReady) {
		return ExitCodeNotReady
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "", "configuration directory (default is $HOME/.config/dai)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newServeCmd())
}
